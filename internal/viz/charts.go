package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bemsim/internal/bem"
)

type field struct {
	caption string
	get     func(bem.ElementOutput) float64
}

var fields = map[string]field{
	"dt":    {"element thrust dT [N]", func(o bem.ElementOutput) float64 { return o.DeltaT }},
	"dq":    {"element torque dQ [N m]", func(o bem.ElementOutput) float64 { return o.DeltaQ }},
	"a":     {"axial induction a", func(o bem.ElementOutput) float64 { return o.A }},
	"b":     {"angular induction b", func(o bem.ElementOutput) float64 { return o.B }},
	"alpha": {"angle of attack [deg]", func(o bem.ElementOutput) float64 { return o.Alpha * 180 / math.Pi }},
	"phi":   {"inflow angle [deg]", func(o bem.ElementOutput) float64 { return o.Phi * 180 / math.Pi }},
	"cl":    {"lift coefficient", func(o bem.ElementOutput) float64 { return o.CL }},
	"cd":    {"drag coefficient", func(o bem.ElementOutput) float64 { return o.CD }},
}

// FieldNames lists the plottable element fields in display order.
func FieldNames() []string {
	return []string{"dt", "dq", "a", "b", "alpha", "phi", "cl", "cd"}
}

// FieldValues extracts one field from every element, hub to tip.
func FieldValues(elements []bem.ElementOutput, name string) ([]float64, string, error) {
	f, ok := fields[name]
	if !ok {
		return nil, "", fmt.Errorf("viz: unknown field %q (available: %v)", name, FieldNames())
	}
	out := make([]float64, len(elements))
	for i, el := range elements {
		out[i] = f.get(el)
	}
	return out, f.caption, nil
}

// Spanwise plots one element field from hub to tip.
func Spanwise(elements []bem.ElementOutput, name string, width, height int) (string, error) {
	data, caption, err := FieldValues(elements, name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("viz: no elements to plot")
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption+", hub to tip"),
	), nil
}
