package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/verletsim/internal/config"
)

var (
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var presetInfo = map[string]string{
	"default": "classic fountain, 1000 bodies",
	"dense":   "many small bodies, fast spawn",
	"gentle":  "slow lob under weak gravity",
	"stress":  "3000 bodies, few sub-steps",
	"zero-g":  "no gravity, bodies drift",
}

// Picker lists the presets and records the one chosen with enter.
type Picker struct {
	presets []string
	cursor  int
	Choice  string
}

func NewPicker() Picker {
	return Picker{presets: config.ListPresets()}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter":
		p.Choice = p.presets[p.cursor]
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("verletsim") + dim.Render("  choose a preset") + "\n\n")
	for i, name := range p.presets {
		line := fmt.Sprintf("%-10s %s", name, presetInfo[name])
		if i == p.cursor {
			b.WriteString(white.Render("> "+line) + "\n")
		} else {
			b.WriteString(dim.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("↑↓ select  enter run  q quit"))
	return b.String()
}
