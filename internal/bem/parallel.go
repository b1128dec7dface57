package bem

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ElementSolver solves one element. *Solver is the canonical implementation.
type ElementSolver interface {
	Solve(in ElementInput) (ElementOutput, error)
}

// SolveAll solves every element concurrently. Outputs are index-aligned
// with inputs. The first failure cancels the remaining solves and is
// returned as an *ElementError.
func SolveAll(ctx context.Context, s ElementSolver, inputs []ElementInput) ([]ElementOutput, error) {
	out := make([]ElementOutput, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := s.Solve(inputs[i])
			if err != nil {
				return &ElementError{Index: i, Wrapped: err}
			}
			out[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Loads extracts the index-aligned thrust and torque sequences.
func Loads(outputs []ElementOutput) (deltaT, deltaQ []float64) {
	deltaT = make([]float64, len(outputs))
	deltaQ = make([]float64, len(outputs))
	for i, o := range outputs {
		deltaT[i] = o.DeltaT
		deltaQ[i] = o.DeltaQ
	}
	return deltaT, deltaQ
}
