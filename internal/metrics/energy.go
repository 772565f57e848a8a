package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/verletsim/internal/physics"
)

// Kinetic returns Σ ½·r·|v|² over objects, using radius as mass the same way
// the collision response does.
func Kinetic(objects []physics.Object, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	total := 0.0
	for i := range objects {
		v := objects[i].GetVelocity(dt)
		total += 0.5 * objects[i].Radius * r2.Norm2(v)
	}
	return total
}

// KineticEnergy averages the per-frame kinetic energy.
type KineticEnergy struct {
	name    string
	samples []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(objects []physics.Object, t, dt float64) {
	k.samples = append(k.samples, Kinetic(objects, dt))
}

func (k *KineticEnergy) Value() float64 {
	if len(k.samples) == 0 {
		return 0
	}
	return stat.Mean(k.samples, nil)
}

// Last is the most recent frame's energy.
func (k *KineticEnergy) Last() float64 {
	if len(k.samples) == 0 {
		return 0
	}
	return k.samples[len(k.samples)-1]
}

func (k *KineticEnergy) Reset() {
	k.samples = k.samples[:0]
}
