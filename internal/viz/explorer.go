package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bemsim/internal/rotor"
	"github.com/san-kum/bemsim/internal/sweep"
)

type knob struct {
	param  sweep.Param
	label  string
	step   float64
	minVal float64
}

var knobs = []knob{
	{sweep.RPM, "rpm", 10, 0},
	{sweep.VInf, "v_inf [m/s]", 0.5, 0.5},
	{sweep.Pitch, "pitch [deg]", 0.5, -90},
}

type evaluatedMsg struct {
	seq    int
	result *rotor.Result
	err    error
}

// Explorer is a Bubble Tea model that re-evaluates the rotor whenever an
// operating parameter changes.
type Explorer struct {
	ev      *rotor.Evaluator
	start   rotor.Rotor
	current rotor.Rotor

	cursor int
	field  int
	theme  int
	styles Styles

	seq     int
	pending bool
	result  *rotor.Result
	err     error

	width, height int
}

func NewExplorer(ev *rotor.Evaluator, r rotor.Rotor) Explorer {
	return Explorer{
		ev:      ev,
		start:   r,
		current: r,
		styles:  NewStyles(Themes[0]),
		seq:     1,
		pending: true,
		width:   80,
		height:  24,
	}
}

func (m Explorer) Init() tea.Cmd { return m.evalCmd() }

func (m *Explorer) evaluate() tea.Cmd {
	m.seq++
	m.pending = true
	return m.evalCmd()
}

func (m Explorer) evalCmd() tea.Cmd {
	seq, ev, r := m.seq, m.ev, m.current
	return func() tea.Msg {
		res, err := ev.Evaluate(context.Background(), r)
		return evaluatedMsg{seq: seq, result: res, err: err}
	}
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		// a slower evaluation of an older setting must not overwrite a newer one
		if msg.seq != m.seq {
			return m, nil
		}
		m.pending = false
		m.result, m.err = msg.result, msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(knobs)-1 {
			m.cursor++
		}
	case "left", "h":
		return m.nudge(-1)
	case "right", "l":
		return m.nudge(1)
	case "H":
		return m.nudge(-10)
	case "L":
		return m.nudge(10)
	case "f":
		m.field = (m.field + 1) % len(FieldNames())
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = NewStyles(Themes[m.theme])
	case "r":
		m.current = m.start
		cmd := m.evaluate()
		return m, cmd
	}
	return m, nil
}

func (m Explorer) nudge(steps float64) (tea.Model, tea.Cmd) {
	k := knobs[m.cursor]
	v := m.Value(k.param) + steps*k.step
	if v < k.minVal {
		v = k.minVal
	}
	r, err := sweep.Apply(m.current, k.param, v)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.current = r
	cmd := m.evaluate()
	return m, cmd
}

// Value reads the current setting of a knob.
func (m Explorer) Value(p sweep.Param) float64 {
	switch p {
	case sweep.RPM:
		return m.current.Operating.RPM
	case sweep.VInf:
		return m.current.Operating.VInf
	case sweep.Pitch:
		return m.current.Blade.Pitch
	case sweep.Rho:
		return m.current.Operating.Rho
	}
	return 0
}

// Result is the most recent evaluation, nil until the first one lands.
func (m Explorer) Result() (*rotor.Result, error) { return m.result, m.err }

func (m Explorer) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n  " + s.Title.Render("BEMSIM") + "  " + s.Label.Render("rotor explorer") + "\n\n")

	for i, k := range knobs {
		label := fmt.Sprintf("%-12s", k.label)
		val := fmt.Sprintf("%9.2f", m.Value(k.param))
		if i == m.cursor {
			b.WriteString("  " + s.Selected.Render("▸ "+label) + " " + s.Value.Render(val) + "\n")
		} else {
			b.WriteString("    " + s.Label.Render(label) + " " + s.Label.Render(val) + "\n")
		}
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + s.Bad.Render(m.err.Error()) + "\n")
	case m.result == nil:
		b.WriteString("  " + s.Hint.Render("evaluating...") + "\n")
	default:
		b.WriteString(m.resultView())
	}

	if m.pending && m.result != nil {
		b.WriteString("  " + s.Hint.Render("updating...") + "\n")
	}

	b.WriteString("\n  " + s.Hint.Render("j/k select  h/l adjust  H/L coarse  f field  t theme  r reset  q quit") + "\n")
	return b.String()
}

func (m Explorer) resultView() string {
	s := m.styles
	res := m.result

	chartWidth := m.width - 20
	if chartWidth < 20 {
		chartWidth = 20
	}

	var b strings.Builder
	b.WriteString(s.Summary(res.Performance) + "\n")
	b.WriteString("  eta " + s.EfficiencyBar(res.Performance.Eta, 30) + "\n\n")

	name := FieldNames()[m.field]
	if chart, err := Spanwise(res.Elements, name, chartWidth, 8); err == nil {
		b.WriteString(chart + "\n\n")
	}

	b.WriteString(Planform(res.Stations, chartWidth/2, 3).String())
	return b.String()
}

// RunExplorer blocks until the user quits.
func RunExplorer(ev *rotor.Evaluator, r rotor.Rotor) error {
	_, err := tea.NewProgram(NewExplorer(ev, r), tea.WithAltScreen()).Run()
	return err
}
