package spawn

import "math/rand"

// Rand is a source of uniform floats in [0, 1).
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded generator owned by the caller.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Range draws uniformly from [min, max).
func Range(r Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
