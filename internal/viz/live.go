package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 600
	maxSubSteps     = 64
)

type TickMsg time.Time

// Model steps a solver on every tick and draws it on a braille canvas.
// Spawning runs on wall-clock time like the window renderer.
type Model struct {
	cfg           *config.Config
	preset        string
	sim           *sim.Simulator
	solver        *physics.Solver
	spawner       *spawn.Spawner
	canvas        *Canvas
	width, height int
	running       bool
	energyHistory []float64
	theme         int
	status        string
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
	gifPath       string
}

func NewModel(cfg *config.Config, preset string) Model {
	m := Model{
		cfg:     cfg,
		preset:  preset,
		width:   width,
		height:  height,
		canvas:  NewCanvas(width, height),
		running: true,
		gifPath: "verletsim.gif",
	}
	m.reset()
	return m
}

func (m Model) tick() tea.Cmd {
	rate := max(m.cfg.FrameRate, 1)
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.setSubSteps(m.solver.GetSubStepsCount() + 1)
		case "-", "_":
			m.setSubSteps(m.solver.GetSubStepsCount() - 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case ConfigMsg:
		m.applyConfig(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) setSubSteps(n int) {
	n = max(1, min(n, maxSubSteps))
	m.cfg.SubSteps = n
	m.solver.SetSubStepsCount(n)
}

// applyConfig swaps tunables in place. Objects already in the solver are
// kept, so a reload never restarts the pile.
func (m *Model) applyConfig(msg ConfigMsg) {
	if msg.Err != nil {
		m.status = "config: " + msg.Err.Error()
		return
	}
	m.cfg = msg.Config
	m.cfg.ApplySolver(m.solver)
	m.spawner.Params = m.cfg.SpawnParams()
	m.status = "config reloaded"
}

func (m *Model) reset() {
	m.solver = m.cfg.NewSolver()
	m.spawner = m.cfg.NewSpawner(spawn.NewWallClock())
	m.sim = sim.New(m.solver, m.spawner)
	m.energyHistory = m.energyHistory[:0]
	m.status = ""
}

func (m *Model) step() {
	m.sim.Step()
	ke := metrics.Kinetic(m.solver.GetObjects(), m.solver.GetStepDt())
	m.energyHistory = append(m.energyHistory, ke)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// project maps world coordinates to canvas dots with the boundary disc
// filling the shorter side.
func (m *Model) project(p physics.Vec2) (int, int, float64) {
	center, radius := m.solver.GetConstraint()
	cw, ch := m.canvas.SubWidth(), m.canvas.SubHeight()
	scale := float64(min(cw, ch)-1) / (2 * radius)
	x := float64(cw)/2 + (p.X-center.X)*scale
	y := float64(ch)/2 + (p.Y-center.Y)*scale
	return int(math.Round(x)), int(math.Round(y)), scale
}

func (m *Model) draw() {
	m.canvas.Clear()
	center, radius := m.solver.GetConstraint()
	cx, cy, scale := m.project(center)
	m.canvas.DrawCircle(cx, cy, int(math.Round(radius*scale)), RGBA(Themes[m.theme].Boundary))

	for _, o := range m.solver.GetObjects() {
		x, y, _ := m.project(o.Position)
		m.canvas.FillCircle(x, y, int(o.Radius*scale), o.Color)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	th := Themes[m.theme]
	header := lipgloss.NewStyle().Bold(true).MarginBottom(1)

	var s strings.Builder
	title := "VERLET"
	if m.preset != "" {
		title += " / " + strings.ToUpper(m.preset)
	}
	s.WriteString(header.Render(GradientText(title, th.Primary, th.Accent)) + "\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	n := m.solver.GetObjectsCount()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.solver.GetTime()))
	row("Objects", fmt.Sprintf("%d / %d", n, m.spawner.MaxObjects))
	if m.spawner.MaxObjects > 0 {
		s.WriteString(ProgressBar(float64(n)/float64(m.spawner.MaxObjects), 28) + "\n")
	}
	row("Sub-steps", fmt.Sprintf("%d", m.solver.GetSubStepsCount()))
	g := m.solver.GetGravity()
	row("Gravity", fmt.Sprintf("(%.0f, %.0f)", g.X, g.Y))
	if len(m.energyHistory) > 0 {
		row("Kinetic", fmt.Sprintf("%.0f", m.energyHistory[len(m.energyHistory)-1]))
		s.WriteString(SparklineChart(m.energyHistory, 28) + "\n")
	}
	row("Overlap", fmt.Sprintf("%.3f", metrics.MaxOverlap(m.solver.GetObjects())))
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Muted).Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Sub-steps T:Theme\nG:Record ?:Help"))

	canvasView := canvasStyle.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Sub-steps up / down      ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Solver exposes the running solver for inspection.
func (m Model) Solver() *physics.Solver { return m.solver }

// Status is the last transient message shown in the panel.
func (m Model) Status() string { return m.status }
