package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verletsim/internal/physics"
)

// Containment is the fraction of observed frames in which every object sat
// inside the boundary. Frames are observed after the last integration step,
// so each object may sit outside by as much as that step moved it; the
// clamp itself happened one step earlier at PositionLast.
type Containment struct {
	name       string
	center     physics.Vec2
	radius     float64
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(center physics.Vec2, radius float64) *Containment {
	return &Containment{
		name:      "containment",
		center:    center,
		radius:    radius,
		tolerance: 1e-6,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(objects []physics.Object, t, dt float64) {
	c.samples++
	for i := range objects {
		o := &objects[i]
		d := r2.Norm(r2.Sub(o.Position, c.center))
		slack := r2.Norm(r2.Sub(o.Position, o.PositionLast))
		if d > c.radius-o.Radius+slack+c.tolerance {
			c.violations++
			return
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
