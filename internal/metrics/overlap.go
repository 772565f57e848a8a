package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verletsim/internal/physics"
)

// MaxOverlap returns the deepest pairwise interpenetration, 0 when no pair
// overlaps.
func MaxOverlap(objects []physics.Object) float64 {
	deepest := 0.0
	for i := 0; i < len(objects); i++ {
		for k := i + 1; k < len(objects); k++ {
			minDist := objects[i].Radius + objects[k].Radius
			d := r2.Norm(r2.Sub(objects[i].Position, objects[k].Position))
			deepest = math.Max(deepest, minDist-d)
		}
	}
	return deepest
}

type Penetration struct {
	name  string
	worst float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(objects []physics.Object, t, dt float64) {
	p.worst = math.Max(p.worst, MaxOverlap(objects))
}

func (p *Penetration) Value() float64 { return p.worst }

func (p *Penetration) Reset() { p.worst = 0 }
