package spawn

import (
	"image/color"
	"math"
)

// Rainbow maps t onto a continuous hue cycle made of three phase-shifted
// squared sines.
func Rainbow(t float64) color.RGBA {
	r := math.Sin(t)
	g := math.Sin(t + 0.33*2*math.Pi)
	b := math.Sin(t + 0.66*2*math.Pi)
	return color.RGBA{
		R: uint8(255 * r * r),
		G: uint8(255 * g * g),
		B: uint8(255 * b * b),
		A: 255,
	}
}
