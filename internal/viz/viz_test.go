package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bemsim/internal/aero"
	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rootfind"
	"github.com/san-kum/bemsim/internal/rotor"
)

func TestCanvas_SetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(100, 100)
	c.Set(-1, 3)

	if !c.IsSet(0, 0) {
		t.Error("expected (0,0) set")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}

	c.DrawLine(0, 7, 7, 0)
	for _, p := range [][2]int{{0, 7}, {7, 0}, {3, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected %v on the diagonal", p)
		}
	}

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 4 {
		t.Errorf("unexpected canvas shape: %q", lines)
	}
}

func TestPlanform(t *testing.T) {
	stations, err := geometry.ReferenceBlade().Stations(6)
	if err != nil {
		t.Fatal(err)
	}
	c := Planform(stations, 40, 4)

	// hub rib spans the full height, the tip rib is shorter
	if !c.IsSet(0, 0) || !c.IsSet(0, 15) {
		t.Error("expected the hub rib at full chord")
	}
	if c.IsSet(79, 0) {
		t.Error("tip chord is narrower than the hub")
	}
	if !c.IsSet(79, 8) {
		t.Error("expected the tip rib around the pitch axis")
	}

	empty := Planform(stations[:1], 10, 2)
	if strings.Trim(empty.String(), "\u2800\n") != "" {
		t.Error("expected a blank canvas for a single station")
	}
}

func TestFieldValues(t *testing.T) {
	elements := []bem.ElementOutput{{A: 0.1}, {A: 0.2}}
	elements[0].Alpha = math.Pi / 18

	a, _, err := FieldValues(elements, "a")
	if err != nil {
		t.Fatal(err)
	}
	if a[0] != 0.1 || a[1] != 0.2 {
		t.Errorf("unexpected values %v", a)
	}

	alpha, caption, _ := FieldValues(elements, "alpha")
	if math.Abs(alpha[0]-10) > 1e-12 {
		t.Errorf("expected 10 deg, got %g", alpha[0])
	}
	if !strings.Contains(caption, "deg") {
		t.Errorf("unexpected caption %q", caption)
	}

	if _, _, err := FieldValues(elements, "lift"); err == nil {
		t.Error("expected unknown field error")
	}
	for _, name := range FieldNames() {
		if _, ok := fields[name]; !ok {
			t.Errorf("field %s listed but not defined", name)
		}
	}
}

func TestSpanwise(t *testing.T) {
	elements := make([]bem.ElementOutput, 5)
	for i := range elements {
		elements[i].DeltaT = float64(i * i)
	}
	chart, err := Spanwise(elements, "dt", 30, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(chart, "element thrust") {
		t.Errorf("missing caption in\n%s", chart)
	}

	if _, err := Spanwise(nil, "dt", 30, 5); err == nil {
		t.Error("expected error for no elements")
	}
}

func TestSummary(t *testing.T) {
	s := NewStyles(GetTheme("safety"))
	out := s.Summary(bem.RotorPerformance{NetThrust: 669.667, Eta: math.NaN(), Basis: bem.TorqueBasis})
	for _, want := range []string{"thrust", "669.667", "torque", "degenerate eta: NaN"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	for _, eta := range []float64{-1, 0.5, 2, math.NaN(), math.Inf(1)} {
		if bar := s.EfficiencyBar(eta, 10); !strings.Contains(bar, "█") && !strings.Contains(bar, "░") {
			t.Errorf("eta %g: empty bar", eta)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("tunnel").Name != "tunnel" {
		t.Error("expected tunnel theme")
	}
	if GetTheme("nonexistent").Name != Themes[0].Name {
		t.Error("expected fallback to the first theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func newExplorer(t *testing.T) Explorer {
	t.Helper()
	res, err := bem.NewFormulation("angle", aero.PaperTable())
	if err != nil {
		t.Fatal(err)
	}
	finder, err := rootfind.New("broyden", rootfind.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return NewExplorer(rotor.NewEvaluator(bem.NewSolver(res, finder)), rotor.PropellerRotor())
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and runs the returned command once, feeding its
// message back as well.
func step(t *testing.T, m Explorer, msg tea.Msg) Explorer {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Explorer)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Explorer)
	}
	return m
}

func TestExplorer_InitialEvaluation(t *testing.T) {
	m := newExplorer(t)
	if !strings.Contains(m.View(), "evaluating") {
		t.Error("expected a pending view before the first result")
	}

	m = step(t, m, m.Init()())
	res, err := m.Result()
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || math.Abs(res.Performance.NetThrust-669.667) > 0.01 {
		t.Fatalf("unexpected result %+v", res)
	}

	view := m.View()
	for _, want := range []string{"rpm", "thrust", "hub to tip"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExplorer_AdjustsAndResets(t *testing.T) {
	m := newExplorer(t)
	m = step(t, m, m.Init()())

	m = step(t, m, key("l"))
	if got := m.Value("rpm"); got != 2110 {
		t.Errorf("expected rpm 2110, got %g", got)
	}
	res, _ := m.Result()
	if res.Rotor.Operating.RPM != 2110 {
		t.Errorf("result not refreshed, rpm %g", res.Rotor.Operating.RPM)
	}

	m = step(t, m, key("j"))
	m = step(t, m, key("H"))
	if got := m.Value("v_inf"); got != 55 {
		t.Errorf("expected v_inf 55, got %g", got)
	}

	m = step(t, m, key("r"))
	if m.Value("rpm") != 2100 || m.Value("v_inf") != 60 {
		t.Error("reset did not restore the starting rotor")
	}
}

func TestExplorer_IgnoresStaleResults(t *testing.T) {
	m := newExplorer(t)
	stale := m.Init()

	next, _ := m.Update(key("l"))
	m = next.(Explorer)

	next, _ = m.Update(stale())
	m = next.(Explorer)
	if res, _ := m.Result(); res != nil {
		t.Error("stale evaluation should be dropped")
	}
}

func TestExplorer_ClampsAndQuits(t *testing.T) {
	m := newExplorer(t)
	m = step(t, m, key("j"))
	for i := 0; i < 20; i++ {
		next, _ := m.Update(key("H"))
		m = next.(Explorer)
	}
	if got := m.Value("v_inf"); got != 0.5 {
		t.Errorf("expected v_inf clamped at 0.5, got %g", got)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
