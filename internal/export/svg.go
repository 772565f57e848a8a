package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
)

// Hex formats c as #rrggbb. Alpha is dropped.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// SnapshotSVG draws the boundary disc and every object of frame, scaled so
// the boundary fits a width x height viewport.
func SnapshotSVG(frame sim.Frame, center physics.Vec2, radius float64, width, height int) string {
	if radius <= 0 || width <= 0 || height <= 0 {
		return ""
	}

	side := float64(min(width, height))
	scale := side / (2 * radius)
	offX := float64(width)/2 - center.X*scale
	offY := float64(height)/2 - center.Y*scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#000000"/>
`, width, height, width, height, float64(width)/2, float64(height)/2, radius*scale))

	for _, o := range frame.Objects {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, o.X*scale+offX, o.Y*scale+offY, o.Radius*scale, Hex(o.Color)))
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="18" font-family="monospace" font-size="12" fill="#444444">t=%.2fs n=%d</text>
`, frame.Time, len(frame.Objects)))
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG renders ys as a polyline scaled into the viewport.
func SeriesToSVG(ys []float64, width, height int, strokeColor string) string {
	if len(ys) < 2 {
		return ""
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}

	pad := 10.0
	w, h := float64(width)-2*pad, float64(height)-2*pad

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, width, height, width, height, strokeColor))

	for i, y := range ys {
		x := pad + float64(i)/float64(len(ys)-1)*w
		py := pad + h - (y-minY)/rangeY*h
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, py))
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
