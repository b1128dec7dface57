package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bemsim/internal/bem"
)

// Styles is the set of lipgloss styles derived from a theme.
type Styles struct {
	Panel    lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Hint     lipgloss.Style
	Good     lipgloss.Style
	Warn     lipgloss.Style
	Bad      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:    lipgloss.NewStyle().Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Hint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Good:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warn:     lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Bad:      lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// Summary renders the aggregated performance as a bordered panel.
func (s Styles) Summary(p bem.RotorPerformance) string {
	rows := []struct {
		label string
		value float64
		unit  string
	}{
		{"thrust", p.NetThrust, "N"},
		{"torque", p.NetTorque, "N m"},
		{"C_T", p.CT, ""},
		{"C_Q", p.CQ, ""},
		{"C_P", p.CP, ""},
		{"J", p.J, ""},
		{"eta", p.Eta, ""},
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("performance") + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s %s\n",
			s.Label.Render(fmt.Sprintf("%-7s", r.label)),
			s.Value.Render(fmt.Sprintf("%12.6g", r.value)),
			s.Label.Render(r.unit))
	}
	b.WriteString(s.Label.Render("basis   ") + string(p.Basis))
	for _, w := range p.Warnings() {
		b.WriteString("\n" + s.Warn.Render(w.String()))
	}
	return s.Panel.Render(b.String())
}

// EfficiencyBar renders eta in [0, 1] as a colored bar.
func (s Styles) EfficiencyBar(eta float64, width int) string {
	frac := eta
	if math.IsNaN(frac) {
		frac = 0
	}
	frac = math.Max(0, math.Min(1, frac))
	filled := int(frac * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case eta > 0.8:
		return s.Good.Render(bar)
	case eta > 0.4:
		return s.Warn.Render(bar)
	}
	return s.Bad.Render(bar)
}
