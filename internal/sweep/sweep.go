// Package sweep evaluates a rotor across a range of one operating or
// geometric parameter.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/rotor"
)

var (
	ErrUnknownParam  = errors.New("sweep: unknown parameter")
	ErrUnknownMetric = errors.New("sweep: unknown metric")
)

// Param names the rotor quantity being varied.
type Param string

const (
	RPM   Param = "rpm"
	VInf  Param = "v_inf"
	Pitch Param = "pitch"
	Rho   Param = "rho"
)

// Params lists the sweepable parameters.
func Params() []Param { return []Param{RPM, VInf, Pitch, Rho} }

// Apply returns a copy of r with p set to v.
func Apply(r rotor.Rotor, p Param, v float64) (rotor.Rotor, error) {
	switch p {
	case RPM:
		r.Operating.RPM = v
	case VInf:
		r.Operating.VInf = v
	case Pitch:
		r.Blade.Pitch = v
	case Rho:
		r.Operating.Rho = v
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownParam, p)
	}
	return r, nil
}

// Range returns n evenly spaced values from start to end inclusive.
func Range(start, end float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	floats.Span(out, start, end)
	return out
}

type Sweep struct {
	Param  Param
	Values []float64
}

// Point is one evaluated value. A failed evaluation keeps its error and
// leaves Performance zero.
type Point struct {
	Value       float64
	Performance bem.RotorPerformance
	Err         error
}

func (p Point) OK() bool { return p.Err == nil }

// Run evaluates base at every value concurrently. Per-point failures are
// recorded on the point; only an unknown parameter or a cancelled context
// aborts the sweep.
func (s Sweep) Run(ctx context.Context, ev *rotor.Evaluator, base rotor.Rotor) ([]Point, error) {
	if _, err := Apply(base, s.Param, 0); err != nil {
		return nil, err
	}

	points := make([]Point, len(s.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, v := range s.Values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, _ := Apply(base, s.Param, v)
			points[i].Value = v

			res, err := ev.Evaluate(ctx, r)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				points[i].Err = err
				return nil
			}
			points[i].Performance = res.Performance
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Metric reads a named quantity from a performance.
func Metric(p bem.RotorPerformance, name string) (float64, error) {
	switch name {
	case "cp":
		return p.CP, nil
	case "ct":
		return p.CT, nil
	case "cq":
		return p.CQ, nil
	case "eta":
		return p.Eta, nil
	case "thrust":
		return p.NetThrust, nil
	case "torque":
		return p.NetTorque, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Best returns the successful point with the largest finite metric.
func Best(points []Point, metric string) (Point, bool, error) {
	if _, err := Metric(bem.RotorPerformance{}, metric); err != nil {
		return Point{}, false, err
	}

	best := math.Inf(-1)
	var bestPoint Point
	found := false
	for _, p := range points {
		if !p.OK() {
			continue
		}
		v, _ := Metric(p.Performance, metric)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > best {
			best = v
			bestPoint = p
			found = true
		}
	}
	return bestPoint, found, nil
}
