package rootfind

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minLambda is the smallest line-search fraction tried before a step is
// taken regardless of the residual.
const minLambda = 1.0 / 1024

// Broyden is a derivative-free quasi-Newton root finder.
type Broyden struct {
	settings Settings
}

func NewBroyden(s Settings) *Broyden {
	return &Broyden{settings: s.withDefaults()}
}

func (b *Broyden) Find(f Func, x0 []float64) (Result, error) {
	s := b.settings
	n := len(x0)

	res := Result{X: clone(x0)}
	eval := func(x []float64) []float64 {
		res.Evaluations++
		return f(x)
	}

	res.F = eval(res.X)
	if !isFinite(res.F) {
		return res, &Failure{Result: res, Reason: ErrNonFinite}
	}
	if res.Norm() <= s.Tol {
		return res, nil
	}

	J, err := b.jacobian(eval, res.X, res.F)
	if err != nil {
		return res, &Failure{Result: res, Reason: err}
	}

	norm := floats.Norm(res.F, 2)
	stalled := 0
	refreshed := false

	for res.Iterations < s.MaxIter {
		res.Iterations++

		rhs := mat.NewVecDense(n, clone(res.F))
		rhs.ScaleVec(-1, rhs)

		var dx mat.VecDense
		if err := dx.SolveVec(J, rhs); err != nil && !isConditionWarning(err) {
			if refreshed {
				return res, &Failure{Result: res, Reason: ErrSingular}
			}
			if J, err = b.jacobian(eval, res.X, res.F); err != nil {
				return res, &Failure{Result: res, Reason: err}
			}
			refreshed = true
			continue
		}

		xn, fn, ok := lineSearch(eval, res.X, dx.RawVector().Data, norm)
		if !ok {
			return res, &Failure{Result: res, Reason: ErrNonFinite}
		}

		step := make([]float64, n)
		floats.SubTo(step, xn, res.X)
		dy := make([]float64, n)
		floats.SubTo(dy, fn, res.F)

		newNorm := floats.Norm(fn, 2)
		if newNorm < norm {
			stalled = 0
			refreshed = false
		} else {
			stalled++
		}

		res.X, res.F = xn, fn
		norm = newNorm

		if res.Norm() <= s.Tol {
			return res, nil
		}

		if stalled >= s.Stall {
			return res, &Failure{Result: res, Reason: ErrStagnated}
		}

		if stalled > 0 && !refreshed {
			// a secant model that stops paying off is rebuilt once
			if J, err = b.jacobian(eval, res.X, res.F); err != nil {
				return res, &Failure{Result: res, Reason: err}
			}
			refreshed = true
			continue
		}

		broydenUpdate(J, step, dy)
	}

	return res, &Failure{Result: res, Reason: ErrMaxIterations}
}

// jacobian estimates dF/dx by forward differences around x, where fx = F(x).
func (b *Broyden) jacobian(eval Func, x, fx []float64) (*mat.Dense, error) {
	n := len(x)
	J := mat.NewDense(n, n, nil)
	xp := clone(x)

	for j := 0; j < n; j++ {
		h := b.settings.Step * math.Max(1, math.Abs(x[j]))
		xp[j] = x[j] + h
		fp := eval(xp)
		xp[j] = x[j]

		if !isFinite(fp) {
			return nil, ErrNonFinite
		}
		for i := 0; i < n; i++ {
			J.Set(i, j, (fp[i]-fx[i])/h)
		}
	}
	return J, nil
}

// lineSearch halves the Newton step until the residual norm drops below
// norm, or the step is minLambda. It reports false if no finite residual
// was found.
func lineSearch(eval Func, x, dx []float64, norm float64) ([]float64, []float64, bool) {
	n := len(x)
	for lambda := 1.0; lambda >= minLambda; lambda /= 2 {
		xn := make([]float64, n)
		floats.AddScaledTo(xn, x, lambda, dx)
		fn := eval(xn)
		if !isFinite(fn) {
			continue
		}
		if floats.Norm(fn, 2) < (1-1e-4*lambda)*norm || lambda/2 < minLambda {
			return xn, fn, true
		}
	}
	return nil, nil, false
}

// broydenUpdate applies J ← J + (dy - J·s)·sᵀ / (sᵀ·s).
func broydenUpdate(J *mat.Dense, s, dy []float64) {
	ss := floats.Dot(s, s)
	if ss == 0 {
		return
	}
	n := len(s)
	sv := mat.NewVecDense(n, s)

	var js mat.VecDense
	js.MulVec(J, sv)

	u := mat.NewVecDense(n, clone(dy))
	u.SubVec(u, &js)

	J.RankOne(J, 1/ss, u, sv)
}

func isConditionWarning(err error) bool {
	var c mat.Condition
	return errors.As(err, &c)
}
