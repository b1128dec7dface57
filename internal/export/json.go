// Package export writes evaluated rotors out as JSON, charts and SVG.
package export

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rotor"
)

// Float marshals non-finite values as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type Performance struct {
	NetThrust  Float                `json:"net_thrust"`
	NetTorque  Float                `json:"net_torque"`
	CT         Float                `json:"c_t"`
	CQ         Float                `json:"c_q"`
	CP         Float                `json:"c_p"`
	J          Float                `json:"j"`
	Eta        Float                `json:"eta"`
	Basis      bem.CoefficientBasis `json:"basis"`
	Degenerate bool                 `json:"degenerate"`
	Warnings   []string             `json:"warnings,omitempty"`
}

type Report struct {
	Name        string              `json:"name,omitempty"`
	Rotor       rotor.Rotor         `json:"rotor"`
	Stations    []geometry.Station  `json:"stations"`
	Elements    []bem.ElementOutput `json:"elements"`
	Performance Performance         `json:"performance"`
	ElapsedMS   float64             `json:"elapsed_ms"`
}

func NewReport(name string, res *rotor.Result) Report {
	p := res.Performance
	perf := Performance{
		NetThrust:  Float(p.NetThrust),
		NetTorque:  Float(p.NetTorque),
		CT:         Float(p.CT),
		CQ:         Float(p.CQ),
		CP:         Float(p.CP),
		J:          Float(p.J),
		Eta:        Float(p.Eta),
		Basis:      p.Basis,
		Degenerate: p.Degenerate,
	}
	for _, w := range p.Warnings() {
		perf.Warnings = append(perf.Warnings, w.String())
	}

	return Report{
		Name:        name,
		Rotor:       res.Rotor,
		Stations:    res.Stations,
		Elements:    res.Elements,
		Performance: perf,
		ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONFile writes v to path, or to stdout when path is empty or "-".
func JSONFile(path string, v any) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, v)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, v)
}
