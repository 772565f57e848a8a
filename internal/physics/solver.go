package physics

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// ResponseCoef damps the positional correction so overlaps resolve over
	// several sub-steps instead of one.
	ResponseCoef = 0.75

	// pairs closer than this have no usable normal and are left alone
	minSeparation = 1e-6
)

var DefaultGravity = Vec2{X: 0, Y: 1000}

// Handle identifies an object by insertion index. Handles remain valid for
// the solver's lifetime because objects are never removed.
type Handle int

// Solver owns every object and the global simulation parameters. It is not
// safe for concurrent use.
type Solver struct {
	subSteps         int
	gravity          Vec2
	constraintCenter Vec2
	constraintRadius float64
	objects          []Object
	time             float64
	frameDt          float64
}

func NewSolver() *Solver {
	return &Solver{
		subSteps:         1,
		gravity:          DefaultGravity,
		constraintRadius: 100,
	}
}

// AddObject appends a body at rest and returns its handle.
func (s *Solver) AddObject(position Vec2, radius float64) Handle {
	s.objects = append(s.objects, NewObject(position, radius))
	return Handle(len(s.objects) - 1)
}

// Object returns the object behind h. The pointer is invalidated by the next
// AddObject; keep the handle instead.
func (s *Solver) Object(h Handle) *Object {
	return &s.objects[h]
}

// SetObjectVelocity uses the sub-step dt, which is the timescale the
// integrator advances by.
func (s *Solver) SetObjectVelocity(h Handle, v Vec2) {
	s.objects[h].SetVelocity(v, s.GetStepDt())
}

func (s *Solver) SetObjectColor(h Handle, c color.RGBA) {
	s.objects[h].Color = c
}

func (s *Solver) SetConstraint(center Vec2, radius float64) {
	s.constraintCenter = center
	s.constraintRadius = radius
}

func (s *Solver) SetSubStepsCount(n int) { s.subSteps = n }

// SetSimulationUpdateRule sets the outer frame step to 1/rate seconds.
func (s *Solver) SetSimulationUpdateRule(rate int) {
	s.frameDt = 1 / float64(rate)
}

func (s *Solver) SetGravity(g Vec2) { s.gravity = g }

func (s *Solver) GetGravity() Vec2 { return s.gravity }

// GetObjects exposes the object slice in insertion order. Callers must treat
// it as read-only.
func (s *Solver) GetObjects() []Object { return s.objects }

func (s *Solver) GetObjectsCount() int { return len(s.objects) }

func (s *Solver) GetConstraint() (Vec2, float64) {
	return s.constraintCenter, s.constraintRadius
}

func (s *Solver) GetTime() float64 { return s.time }

func (s *Solver) GetSubStepsCount() int { return s.subSteps }

func (s *Solver) GetFrameDt() float64 { return s.frameDt }

func (s *Solver) GetStepDt() float64 {
	return s.frameDt / float64(s.subSteps)
}

// Validate reports configuration that would make Update divide by zero or
// stall. Update itself never checks.
func (s *Solver) Validate() error {
	if s.subSteps < 1 {
		return fmt.Errorf("%w: sub-steps must be >= 1, got %d", ErrInvalidConfig, s.subSteps)
	}
	if !(s.frameDt > 0) || math.IsInf(s.frameDt, 0) {
		return fmt.Errorf("%w: frame dt must be positive, got %f", ErrInvalidConfig, s.frameDt)
	}
	if s.constraintRadius <= 0 {
		return fmt.Errorf("%w: constraint radius must be positive, got %f", ErrInvalidConfig, s.constraintRadius)
	}
	return nil
}

// Update advances the simulation by one frame split into sub-steps.
func (s *Solver) Update() {
	s.time += s.frameDt
	stepDt := s.GetStepDt()
	for i := 0; i < s.subSteps; i++ {
		s.applyGravity()
		s.checkCollisions()
		s.applyConstraint()
		s.updateObjects(stepDt)
	}
}

func (s *Solver) applyGravity() {
	for i := range s.objects {
		s.objects[i].Accelerate(s.gravity)
	}
}

// checkCollisions resolves overlaps pairwise in insertion order. The order
// matters for dense packings and must stay stable for reproducible runs.
func (s *Solver) checkCollisions() {
	n := len(s.objects)
	for i := 0; i < n; i++ {
		o1 := &s.objects[i]
		for k := i + 1; k < n; k++ {
			o2 := &s.objects[k]
			resolveOverlap(o1, o2)
		}
	}
}

func resolveOverlap(o1, o2 *Object) {
	delta := r2.Sub(o1.Position, o2.Position)
	dist2 := r2.Norm2(delta)
	minDist := o1.Radius + o2.Radius
	if dist2 >= minDist*minDist || dist2 <= minSeparation*minSeparation {
		return
	}

	dist := math.Sqrt(dist2)
	normal := r2.Scale(1/dist, delta)
	massRatio1 := o1.Radius / minDist
	massRatio2 := o2.Radius / minDist
	correction := 0.5 * ResponseCoef * (dist - minDist)

	o1.Position = r2.Sub(o1.Position, r2.Scale(massRatio2*correction, normal))
	o2.Position = r2.Add(o2.Position, r2.Scale(massRatio1*correction, normal))
}

// applyConstraint clamps every center into the boundary disc shrunk by the
// object's radius.
func (s *Solver) applyConstraint() {
	for i := range s.objects {
		o := &s.objects[i]
		delta := r2.Sub(s.constraintCenter, o.Position)
		dist := r2.Norm(delta)
		limit := s.constraintRadius - o.Radius
		if dist <= limit || dist == 0 {
			continue
		}
		normal := r2.Scale(1/dist, delta)
		o.Position = r2.Sub(s.constraintCenter, r2.Scale(limit, normal))
	}
}

func (s *Solver) updateObjects(dt float64) {
	for i := range s.objects {
		s.objects[i].Update(dt)
	}
}
