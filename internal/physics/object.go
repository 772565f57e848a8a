package physics

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is the 2D vector used throughout the solver.
type Vec2 = r2.Vec

// Object is a single circular body integrated with position Verlet.
// Velocity is implicit: (Position - PositionLast) / dt.
type Object struct {
	Position     Vec2
	PositionLast Vec2
	Acceleration Vec2
	Radius       float64
	Color        color.RGBA
}

// NewObject creates a body at rest at position.
func NewObject(position Vec2, radius float64) Object {
	return Object{
		Position:     position,
		PositionLast: position,
		Radius:       radius,
		Color:        color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Update performs one Verlet step and consumes the accumulated acceleration.
func (o *Object) Update(dt float64) {
	displacement := r2.Sub(o.Position, o.PositionLast)
	o.PositionLast = o.Position
	o.Position = r2.Add(o.Position, r2.Add(displacement, r2.Scale(dt*dt, o.Acceleration)))
	o.Acceleration = Vec2{}
}

func (o *Object) Accelerate(a Vec2) {
	o.Acceleration = r2.Add(o.Acceleration, a)
}

// SetVelocity rewrites the previous position so the next step moves by v*dt.
func (o *Object) SetVelocity(v Vec2, dt float64) {
	o.PositionLast = r2.Sub(o.Position, r2.Scale(dt, v))
}

func (o *Object) AddVelocity(v Vec2, dt float64) {
	o.PositionLast = r2.Sub(o.PositionLast, r2.Scale(dt, v))
}

func (o *Object) GetVelocity(dt float64) Vec2 {
	return r2.Scale(1/dt, r2.Sub(o.Position, o.PositionLast))
}
