package bem

import (
	"errors"
	"math"

	"github.com/san-kum/bemsim/internal/rootfind"
)

var errUnevaluated = errors.New("finder returned a point it never evaluated")

// Solver finds the inflow factors of a single element.
type Solver struct {
	residual InflowResidual
	finder   rootfind.Finder
}

func NewSolver(residual InflowResidual, finder rootfind.Finder) *Solver {
	return &Solver{residual: residual, finder: finder}
}

// Formulation returns the residual the solver iterates on.
func (s *Solver) Formulation() InflowResidual { return s.residual }

// Solve validates in, iterates from (AInit, BInit) and returns the state
// recorded at the converged point.
func (s *Solver) Solve(in ElementInput) (ElementOutput, error) {
	if err := in.Validate(); err != nil {
		return ElementOutput{}, err
	}

	// every evaluated point keeps its intermediates; the converged one is
	// looked up afterwards instead of being recomputed
	evaluated := make(map[[2]float64]Intermediates)
	f := func(x []float64) []float64 {
		key := [2]float64{x[0], x[1]}
		r, st := s.residual.Evaluate(key, in)
		evaluated[key] = st
		return []float64{r[0], r[1]}
	}

	res, err := s.finder.Find(f, []float64{in.AInit, in.BInit})
	if err != nil {
		return ElementOutput{}, convergenceError(res, err)
	}

	key := [2]float64{res.X[0], res.X[1]}
	st, ok := evaluated[key]
	if !ok {
		return ElementOutput{}, convergenceError(res, errUnevaluated)
	}

	return ElementOutput{
		Intermediates: st,
		A:             key[0],
		B:             key[1],
		Residual:      [2]float64{res.F[0], res.F[1]},
		Iterations:    res.Iterations,
	}, nil
}

func convergenceError(res rootfind.Result, cause error) *ConvergenceError {
	ce := &ConvergenceError{
		A:          math.NaN(),
		B:          math.NaN(),
		Residual:   [2]float64{math.NaN(), math.NaN()},
		Iterations: res.Iterations,
		Cause:      cause,
	}
	if len(res.X) == 2 {
		ce.A, ce.B = res.X[0], res.X[1]
	}
	if len(res.F) == 2 {
		ce.Residual = [2]float64{res.F[0], res.F[1]}
	}
	return ce
}
