// Package spawn decides when new bodies enter the solver and how they are
// launched.
package spawn

import (
	"math"

	"github.com/san-kum/verletsim/internal/physics"
)

// Params is the spawn policy.
type Params struct {
	Delay      float64
	Speed      float64
	Position   physics.Vec2
	MinRadius  float64
	MaxRadius  float64
	MaxObjects int
	MaxAngle   float64
}

// Spawner emits at most one object per Step while under the object cap.
type Spawner struct {
	Params
	clock Clock
	rng   Rand
}

func New(p Params, clock Clock, rng Rand) *Spawner {
	return &Spawner{Params: p, clock: clock, rng: rng}
}

func (sp *Spawner) Clock() Clock { return sp.clock }

// Step adds one object to s if the cap allows it and the delay has elapsed.
func (sp *Spawner) Step(s *physics.Solver) (physics.Handle, bool) {
	if s.GetObjectsCount() >= sp.MaxObjects || sp.clock.Elapsed() < sp.Delay {
		return 0, false
	}
	sp.clock.Restart()

	h := s.AddObject(sp.Position, Range(sp.rng, sp.MinRadius, sp.MaxRadius))
	t := s.GetTime()
	s.SetObjectVelocity(h, LaunchVelocity(t, sp.MaxAngle, sp.Speed))
	s.SetObjectColor(h, Rainbow(t))
	return h, true
}

// LaunchVelocity fans launches around straight down, oscillating with t.
func LaunchVelocity(t, maxAngle, speed float64) physics.Vec2 {
	angle := maxAngle*math.Sin(t) + math.Pi*0.5
	return physics.Vec2{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
}
