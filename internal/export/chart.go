package export

import (
	"errors"
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/bemsim/internal/rotor"
	"github.com/san-kum/bemsim/internal/sweep"
)

var ErrNoData = errors.New("export: nothing to plot")

var chartFormats = map[string]bool{".png": true, ".svg": true, ".pdf": true}

// Series is one named line.
type Series struct {
	Name string
	X, Y []float64
}

// Chart is a line chart written with gonum/plot. The file format follows
// the path extension.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	Width  vg.Length
	Height vg.Length
}

func (c Chart) Save(path string) error {
	ext := filepath.Ext(path)
	if !chartFormats[ext] {
		return fmt.Errorf("export: unsupported chart format %q", ext)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	var lines []interface{}
	for _, s := range c.Series {
		if len(s.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.X))
		for i := range s.X {
			pts[i].X = s.X[i]
			pts[i].Y = s.Y[i]
		}
		lines = append(lines, s.Name, pts)
	}
	if len(lines) == 0 {
		return ErrNoData
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("export: plotting failed: %w", err)
	}

	w, h := c.Width, c.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 4 * vg.Inch
	}
	return p.Save(w, h, path)
}

// SpanwiseChart plots element thrust and torque against radius.
func SpanwiseChart(res *rotor.Result) Chart {
	n := len(res.Elements)
	r := make([]float64, n)
	dT := make([]float64, n)
	dQ := make([]float64, n)
	for i, el := range res.Elements {
		r[i] = res.Stations[i].R
		dT[i] = el.DeltaT
		dQ[i] = el.DeltaQ
	}
	return Chart{
		Title:  "Spanwise loads",
		XLabel: "r [m]",
		YLabel: "load per element",
		Series: []Series{
			{Name: "dT [N]", X: r, Y: dT},
			{Name: "dQ [N m]", X: r, Y: dQ},
		},
	}
}

// SweepChart plots metric against the swept parameter. Failed and
// non-finite points are left out.
func SweepChart(param sweep.Param, metric string, points []sweep.Point) (Chart, error) {
	var xs, ys []float64
	for _, p := range points {
		if !p.OK() {
			continue
		}
		v, err := sweep.Metric(p.Performance, metric)
		if err != nil {
			return Chart{}, err
		}
		if !finite(v) {
			continue
		}
		xs = append(xs, p.Value)
		ys = append(ys, v)
	}
	return Chart{
		Title:  fmt.Sprintf("%s vs %s", metric, param),
		XLabel: string(param),
		YLabel: metric,
		Series: []Series{{Name: metric, X: xs, Y: ys}},
	}, nil
}
