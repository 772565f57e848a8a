package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/physics"
)

func movingObject(p physics.Vec2, r float64, v physics.Vec2, dt float64) physics.Object {
	o := physics.NewObject(p, r)
	o.SetVelocity(v, dt)
	return o
}

func TestKinetic(t *testing.T) {
	dt := 0.01
	objs := []physics.Object{
		movingObject(physics.Vec2{}, 2, physics.Vec2{X: 3, Y: 4}, dt),
		movingObject(physics.Vec2{X: 10}, 1, physics.Vec2{}, dt),
	}

	want := 0.5 * 2 * 25
	if got := Kinetic(objs, dt); math.Abs(got-want) > 1e-9 {
		t.Errorf("Kinetic() = %f, want %f", got, want)
	}
	if got := Kinetic(objs, 0); got != 0 {
		t.Errorf("expected 0 for zero dt, got %f", got)
	}
}

func TestKineticEnergyMetric(t *testing.T) {
	dt := 0.01
	m := NewKineticEnergy()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero before observations")
	}

	m.Observe([]physics.Object{movingObject(physics.Vec2{}, 1, physics.Vec2{X: 2}, dt)}, 0, dt)
	m.Observe([]physics.Object{movingObject(physics.Vec2{}, 1, physics.Vec2{X: 4}, dt)}, dt, dt)

	if math.Abs(m.Value()-5) > 1e-9 {
		t.Errorf("expected mean 5, got %f", m.Value())
	}
	if math.Abs(m.Last()-8) > 1e-9 {
		t.Errorf("expected last 8, got %f", m.Last())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMaxOverlap(t *testing.T) {
	tests := []struct {
		name string
		objs []physics.Object
		want float64
	}{
		{"empty", nil, 0},
		{"apart", []physics.Object{
			physics.NewObject(physics.Vec2{}, 1),
			physics.NewObject(physics.Vec2{X: 5}, 1),
		}, 0},
		{"overlap", []physics.Object{
			physics.NewObject(physics.Vec2{}, 2),
			physics.NewObject(physics.Vec2{X: 3}, 2),
			physics.NewObject(physics.Vec2{X: 50}, 2),
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxOverlap(tt.objs); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MaxOverlap() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPenetrationKeepsWorst(t *testing.T) {
	p := NewPenetration()
	deep := []physics.Object{physics.NewObject(physics.Vec2{}, 2), physics.NewObject(physics.Vec2{X: 1}, 2)}
	shallow := []physics.Object{physics.NewObject(physics.Vec2{}, 2), physics.NewObject(physics.Vec2{X: 3.5}, 2)}

	p.Observe(deep, 0, 0.01)
	p.Observe(shallow, 0.01, 0.01)
	if math.Abs(p.Value()-3) > 1e-12 {
		t.Errorf("expected worst 3, got %f", p.Value())
	}
	p.Reset()
	if p.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContainment(t *testing.T) {
	c := NewContainment(physics.Vec2{}, 10)
	if c.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", c.Value())
	}

	inside := []physics.Object{physics.NewObject(physics.Vec2{X: 8}, 2)}
	outside := []physics.Object{physics.NewObject(physics.Vec2{X: 9}, 2)}

	c.Observe(inside, 0, 0.01)
	c.Observe(inside, 0.01, 0.01)
	c.Observe(inside, 0.02, 0.01)
	c.Observe(outside, 0.03, 0.01)

	if math.Abs(c.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", c.Value())
	}
}

func TestContainmentAllowsLastStepMotion(t *testing.T) {
	dt := 1.0 / 480
	tests := []struct {
		name      string
		last, pos physics.Vec2
		contained bool
	}{
		{"resting on the wall", physics.Vec2{X: 8}, physics.Vec2{X: 8.004}, true},
		{"moving along the wall", physics.Vec2{X: 8}, physics.Vec2{X: 8.5, Y: 1}, true},
		{"fast step outward", physics.Vec2{X: 8}, physics.Vec2{X: 8.5}, true},
		{"clamp missed", physics.Vec2{X: 9}, physics.Vec2{X: 9.01}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := physics.NewObject(tt.pos, 2)
			o.PositionLast = tt.last
			c := NewContainment(physics.Vec2{}, 10)
			c.Observe([]physics.Object{o}, 0, dt)
			if got := c.Value() == 1; got != tt.contained {
				t.Errorf("contained = %v, want %v", got, tt.contained)
			}
		})
	}
}

func TestContainmentOfSolverRun(t *testing.T) {
	s := physics.NewSolver()
	s.SetSimulationUpdateRule(60)
	s.SetSubStepsCount(8)
	s.SetConstraint(physics.Vec2{X: 500, Y: 500}, 450)
	for i := 0; i < 40; i++ {
		h := s.AddObject(physics.Vec2{X: 300 + float64(i)*10, Y: 500}, 8)
		s.SetObjectVelocity(h, physics.Vec2{X: 0, Y: 900})
	}

	c := NewContainment(s.GetConstraint())
	for f := 0; f < 300; f++ {
		s.Update()
		c.Observe(s.GetObjects(), s.GetTime(), s.GetStepDt())
	}
	if c.Value() < 0.99 {
		t.Errorf("containment %f for a clamped run, want ~1", c.Value())
	}
}
