package aero

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Model maps a station's angle of attack (rad) to drag and lift coefficients.
// The radius is passed for models keyed on blade position.
type Model interface {
	Coefficients(alpha, radius float64) (cd, cl float64)
}

// Tabulated section polar of the reference rotor, angles in degrees.
var (
	paperLiftAngles = []float64{0.2, 1, 2, 3, 4, 5}
	paperLift       = []float64{0.7, 0.6866, 0.6609, 0.6589, 0.6597, 0.6595}

	paperDragAngles = []float64{0, 10, 20, 30, 40}
	paperDrag       = []float64{0, 0, 0.3, 0.6, 1.0}
)

// Table looks lift and drag up on two independent curves keyed by angle of
// attack in radians.
type Table struct {
	Lift *Curve
	Drag *Curve
}

// NewTable builds a table from radian breakpoints.
func NewTable(liftAlpha, cl, dragAlpha, cd []float64) (*Table, error) {
	lift, err := NewCurve(liftAlpha, cl)
	if err != nil {
		return nil, fmt.Errorf("lift curve: %w", err)
	}
	drag, err := NewCurve(dragAlpha, cd)
	if err != nil {
		return nil, fmt.Errorf("drag curve: %w", err)
	}
	return &Table{Lift: lift, Drag: drag}, nil
}

// NewTableDegrees builds a table from breakpoints given in degrees.
func NewTableDegrees(liftDeg, cl, dragDeg, cd []float64) (*Table, error) {
	return NewTable(toRadians(liftDeg), cl, toRadians(dragDeg), cd)
}

// PaperTable returns the reference rotor's polar.
func PaperTable() *Table {
	t, err := NewTableDegrees(paperLiftAngles, paperLift, paperDragAngles, paperDrag)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Coefficients(alpha, _ float64) (cd, cl float64) {
	return t.Drag.At(alpha), t.Lift.At(alpha)
}

// LinearPolar is the thin-airfoil lift line with a quadratic drag polar:
// CL = Slope·alpha, CD = CD0 + CD1·CL + CD2·CL².
type LinearPolar struct {
	Slope float64
	CD0   float64
	CD1   float64
	CD2   float64
}

func NewLinearPolar() *LinearPolar {
	return &LinearPolar{Slope: 6.2, CD0: 0.008, CD1: -0.003, CD2: 0.01}
}

func (p *LinearPolar) Coefficients(alpha, _ float64) (cd, cl float64) {
	cl = p.Slope * alpha
	cd = p.CD0 + p.CD1*cl + p.CD2*cl*cl
	return cd, cl
}

// RadiusKeyed reproduces the reference rotor's legacy lookup: the paper
// curves are indexed by station radius in raw table units, the angle of
// attack is ignored and drag is forced to zero.
//
// Deprecated: keying a section polar on radius is almost certainly a defect
// in the reference model. It is kept so historical results can be
// reproduced until a domain expert confirms the intended behaviour; use
// [Table] for new work.
type RadiusKeyed struct {
	lift *Curve
}

func NewRadiusKeyed() *RadiusKeyed {
	return &RadiusKeyed{lift: MustCurve(paperLiftAngles, paperLift)}
}

func (k *RadiusKeyed) Coefficients(_, radius float64) (cd, cl float64) {
	return 0, k.lift.At(radius)
}

// Constant returns fixed coefficients regardless of the station.
type Constant struct {
	CD float64
	CL float64
}

func (c Constant) Coefficients(_, _ float64) (cd, cl float64) {
	return c.CD, c.CL
}

var registry = map[string]func() Model{
	"table":         func() Model { return PaperTable() },
	"linear":        func() Model { return NewLinearPolar() },
	"radius-legacy": func() Model { return NewRadiusKeyed() },
}

// New returns the named model.
func New(name string) (Model, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownModel, name, Names())
	}
	return fn(), nil
}

// Names lists registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toRadians(deg []float64) []float64 {
	out := make([]float64, len(deg))
	copy(out, deg)
	floats.Scale(math.Pi/180, out)
	return out
}
