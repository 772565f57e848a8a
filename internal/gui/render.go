package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// drawConstraint fills the boundary disc; objects are drawn on top of it.
func (a *App) drawConstraint() {
	center, radius := a.Solver.GetConstraint()
	rl.DrawCircleV(rl.NewVector2(float32(center.X), float32(center.Y)), float32(radius), ColBoundary)
}

func (a *App) drawObjects() {
	for _, o := range a.Solver.GetObjects() {
		pos := rl.NewVector2(float32(o.Position.X), float32(o.Position.Y))
		rl.DrawCircleV(pos, float32(o.Radius), toColor(o.Color))
	}
}

// DrawTelemetry plots recent kinetic energy as a line graph in the top right.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	const graphW, graphH = 200, 60
	x0 := int32(a.Cfg.WindowWidth) - graphW - 20
	y0 := int32(50)
	rl.DrawRectangleLines(x0, y0, graphW, graphH, ColTextDim)

	hi := a.Telemetry[0]
	for _, v := range a.Telemetry {
		hi = max(hi, v)
	}
	if hi == 0 {
		hi = 1
	}

	step := float32(graphW) / float32(telemetryCapacity)
	for i := 1; i < len(a.Telemetry); i++ {
		p1 := rl.NewVector2(float32(x0)+float32(i-1)*step, float32(y0)+graphH-float32(a.Telemetry[i-1]/hi)*graphH)
		p2 := rl.NewVector2(float32(x0)+float32(i)*step, float32(y0)+graphH-float32(a.Telemetry[i]/hi)*graphH)
		rl.DrawLineV(p1, p2, ColText)
	}
	rl.DrawText("kinetic", x0, y0+graphH+4, 12, ColTextDim)
}
