package spawn

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/verletsim/internal/physics"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newSolver() *physics.Solver {
	s := physics.NewSolver()
	s.SetConstraint(physics.Vec2{X: 500, Y: 500}, 450)
	s.SetSubStepsCount(8)
	s.SetSimulationUpdateRule(60)
	return s
}

func TestSpawnGating(t *testing.T) {
	s := newSolver()
	clock := NewFrameClock()
	sp := New(Params{
		Delay:      0.025,
		Speed:      1200,
		Position:   physics.Vec2{X: 500, Y: 200},
		MinRadius:  1,
		MaxRadius:  20,
		MaxObjects: 5,
		MaxAngle:   1,
	}, clock, NewRand(1))

	var spawnFrames []int
	for frame := 0; frame < 120; frame++ {
		if _, ok := sp.Step(s); ok {
			spawnFrames = append(spawnFrames, frame)
		}
		s.Update()
		clock.Advance(s.GetFrameDt())
	}

	if s.GetObjectsCount() != 5 {
		t.Fatalf("expected 5 objects, got %d", s.GetObjectsCount())
	}
	for i := 1; i < len(spawnFrames); i++ {
		gap := spawnFrames[i] - spawnFrames[i-1]
		if gap < 1 || gap > 2 {
			t.Errorf("spawn gap %d frames between %d and %d", gap, spawnFrames[i-1], spawnFrames[i])
		}
	}
	if spawnFrames[len(spawnFrames)-1] > 12 {
		t.Errorf("last spawn too late: frame %d", spawnFrames[len(spawnFrames)-1])
	}
}

func TestSpawnAssignsLaunchState(t *testing.T) {
	s := newSolver()
	for i := 0; i < 30; i++ {
		s.Update()
	}
	clock := NewFrameClock()
	clock.Advance(1)
	sp := New(Params{
		Delay:      0.5,
		Speed:      1200,
		Position:   physics.Vec2{X: 500, Y: 200},
		MinRadius:  2,
		MaxRadius:  12,
		MaxObjects: 10,
		MaxAngle:   1,
	}, clock, fixedRand(0.5))

	h, ok := sp.Step(s)
	if !ok {
		t.Fatal("expected a spawn")
	}
	if clock.Elapsed() != 0 {
		t.Errorf("clock not restarted: %f", clock.Elapsed())
	}

	o := s.GetObjects()[h]
	if o.Radius != 7 {
		t.Errorf("expected radius 7, got %f", o.Radius)
	}
	if o.Position != sp.Position {
		t.Errorf("spawned at %v, want %v", o.Position, sp.Position)
	}

	want := LaunchVelocity(s.GetTime(), 1, 1200)
	got := o.GetVelocity(s.GetStepDt())
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
		t.Errorf("velocity %v, want %v", got, want)
	}
	if o.Color != Rainbow(s.GetTime()) {
		t.Errorf("color %v, want %v", o.Color, Rainbow(s.GetTime()))
	}

	if _, ok := sp.Step(s); ok {
		t.Error("spawned again before the delay elapsed")
	}
}

func TestLaunchVelocity(t *testing.T) {
	v := LaunchVelocity(0, 1, 1200)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1200) > 1e-9 {
		t.Errorf("expected straight down at t=0, got %v", v)
	}

	for _, tm := range []float64{0.3, 1.2, 4.7, 10} {
		v := LaunchVelocity(tm, 1, 1200)
		if speed := math.Hypot(v.X, v.Y); math.Abs(speed-1200) > 1e-9 {
			t.Errorf("t=%f: speed %f, want 1200", tm, speed)
		}
		angle := math.Atan2(v.Y, v.X)
		if angle < math.Pi/2-1-1e-9 || angle > math.Pi/2+1+1e-9 {
			t.Errorf("t=%f: angle %f outside fan", tm, angle)
		}
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		u, min, max, want float64
	}{
		{0, 1, 20, 1},
		{0.5, 1, 21, 11},
		{0.25, -4, 4, -2},
	}
	for _, tt := range tests {
		if got := Range(fixedRand(tt.u), tt.min, tt.max); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Range(%f, %f, %f) = %f, want %f", tt.u, tt.min, tt.max, got, tt.want)
		}
	}

	r := NewRand(3)
	for i := 0; i < 1000; i++ {
		if v := Range(r, 1, 20); v < 1 || v >= 20 {
			t.Fatalf("value %f outside [1, 20)", v)
		}
	}
}

func TestSeededRandReproducible(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestRainbow(t *testing.T) {
	c := Rainbow(0)
	if c.R != 0 || c.A != 255 {
		t.Errorf("expected no red at t=0, got %v", c)
	}
	if c := Rainbow(math.Pi / 2); c.R != 255 {
		t.Errorf("expected full red at t=pi/2, got %v", c)
	}

	for _, tm := range []float64{0.4, 1.3, 2.9} {
		a, b := Rainbow(tm), Rainbow(tm+math.Pi)
		if absDiff(a.R, b.R) > 1 || absDiff(a.G, b.G) > 1 || absDiff(a.B, b.B) > 1 {
			t.Errorf("t=%f: hue not periodic: %v vs %v", tm, a, b)
		}
	}
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestWallClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &WallClock{start: now, now: func() time.Time { return now }}

	now = now.Add(250 * time.Millisecond)
	if math.Abs(c.Elapsed()-0.25) > 1e-9 {
		t.Errorf("expected 0.25s elapsed, got %f", c.Elapsed())
	}

	c.Restart()
	if c.Elapsed() != 0 {
		t.Errorf("expected 0 after restart, got %f", c.Elapsed())
	}
}

func TestFrameClock(t *testing.T) {
	c := NewFrameClock()
	c.Advance(1.0 / 60)
	c.Advance(1.0 / 60)
	if math.Abs(c.Elapsed()-2.0/60) > 1e-12 {
		t.Errorf("unexpected elapsed %f", c.Elapsed())
	}
	c.Restart()
	if c.Elapsed() != 0 {
		t.Error("restart did not reset")
	}
}
