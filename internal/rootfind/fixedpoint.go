package rootfind

// FixedPoint iterates x ← x - w·F(x). With w = 1 and F(x) = x - g(x) this
// is plain fixed-point iteration on g.
type FixedPoint struct {
	settings Settings
}

func NewFixedPoint(s Settings) *FixedPoint {
	return &FixedPoint{settings: s.withDefaults()}
}

func (p *FixedPoint) Find(f Func, x0 []float64) (Result, error) {
	s := p.settings
	res := Result{X: clone(x0)}

	for {
		res.F = f(res.X)
		res.Evaluations++

		if !isFinite(res.F) {
			return res, &Failure{Result: res, Reason: ErrNonFinite}
		}
		if res.Norm() <= s.Tol {
			return res, nil
		}
		if res.Iterations >= s.MaxIter {
			return res, &Failure{Result: res, Reason: ErrMaxIterations}
		}

		next := make([]float64, len(res.X))
		for i := range res.X {
			next[i] = res.X[i] - s.Relax*res.F[i]
		}
		res.X = next
		res.Iterations++
	}
}
