package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
)

var (
	ColBg       = rl.NewColor(255, 255, 255, 255)
	ColBoundary = rl.NewColor(0, 0, 0, 255)
	ColText     = rl.NewColor(140, 140, 140, 255)
	ColTextDim  = rl.NewColor(60, 60, 60, 255)
	ColSelect   = rl.NewColor(20, 20, 20, 255)
)

const telemetryCapacity = 200

// App is the window renderer: spawn, update, draw, once per frame.
type App struct {
	Cfg       *config.Config
	Preset    string
	Solver    *physics.Solver
	Spawner   *spawn.Spawner
	Sim       *sim.Simulator
	Running   bool
	ShowHUD   bool
	Telemetry []float64
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.WindowWidth), int32(cfg.WindowHeight), "verletsim")
	rl.SetTargetFPS(int32(cfg.FrameRate))
}

func NewApp(cfg *config.Config, preset string) *App {
	a := &App{
		Cfg:       cfg,
		Preset:    preset,
		ShowHUD:   true,
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
	a.reset()
	return a
}

func (a *App) reset() {
	a.Solver = a.Cfg.NewSolver()
	a.Spawner = a.Cfg.NewSpawner(spawn.NewWallClock())
	a.Sim = sim.New(a.Solver, a.Spawner)
	a.Telemetry = a.Telemetry[:0]
	a.Running = true
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, preset string) {
	initWindow(cfg)
	defer rl.CloseWindow()

	NewApp(cfg, preset).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.Solver.SetSubStepsCount(a.Solver.GetSubStepsCount() + 1)
	}
	if (rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract)) && a.Solver.GetSubStepsCount() > 1 {
		a.Solver.SetSubStepsCount(a.Solver.GetSubStepsCount() - 1)
	}

	if !a.Running {
		return
	}
	a.Sim.Step()

	ke := metrics.Kinetic(a.Solver.GetObjects(), a.Solver.GetStepDt())
	a.Telemetry = append(a.Telemetry, ke)
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawConstraint()
	a.drawObjects()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	title := "verletsim"
	if a.Preset != "" {
		title += " :: " + a.Preset
	}
	rl.DrawText(title, 20, 20, 20, ColSelect)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	w := int32(a.Cfg.WindowWidth)
	h := int32(a.Cfg.WindowHeight)
	rl.DrawText(status, w-120, 20, 16, col)

	rl.DrawText(fmt.Sprintf("objects %d / %d", a.Solver.GetObjectsCount(), a.Spawner.MaxObjects), 20, 50, 16, ColText)
	rl.DrawText(fmt.Sprintf("sub-steps %d", a.Solver.GetSubStepsCount()), 20, 70, 16, ColText)
	rl.DrawText(fmt.Sprintf("t %.2fs", a.Solver.GetTime()), 20, 90, 16, ColText)

	a.DrawTelemetry()

	rl.DrawFPS(20, h-30)
	rl.DrawText("[SPACE] PAUSE  [R] RESET  [+/-] SUB-STEPS  [H] HUD  [ESC] QUIT", w-560, h-26, 14, ColTextDim)
}
