package rootfind

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circleLine has roots at (±1/√2, ±1/√2) on the diagonal.
func circleLine(x []float64) []float64 {
	return []float64{
		x[0]*x[0] + x[1]*x[1] - 1,
		x[0] - x[1],
	}
}

// contraction is x - g(x) for g(x) = (cos(x1)/2, sin(x0)/3).
func contraction(x []float64) []float64 {
	return []float64{
		x[0] - 0.5*math.Cos(x[1]),
		x[1] - math.Sin(x[0])/3,
	}
}

func TestBroyden_CircleLine(t *testing.T) {
	b := NewBroyden(DefaultSettings())

	res, err := b.Find(circleLine, []float64{1, 0.5})
	require.NoError(t, err)

	assert.InDelta(t, 1/math.Sqrt2, res.X[0], 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, res.X[1], 1e-9)
	assert.LessOrEqual(t, res.Norm(), 1e-10)
	assert.Greater(t, res.Evaluations, res.Iterations)
}

func TestBroyden_ResultPairsXWithF(t *testing.T) {
	b := NewBroyden(DefaultSettings())

	res, err := b.Find(contraction, []float64{0, 0})
	require.NoError(t, err)

	assert.InDeltaSlice(t, contraction(res.X), res.F, 0)
}

func TestBroyden_AlreadyConverged(t *testing.T) {
	b := NewBroyden(DefaultSettings())
	x0 := []float64{1 / math.Sqrt2, 1 / math.Sqrt2}

	res, err := b.Find(func(x []float64) []float64 { return []float64{0, 0} }, x0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 1, res.Evaluations)
	assert.Equal(t, x0, res.X)
}

func TestBroyden_NoRoot(t *testing.T) {
	s := DefaultSettings()
	s.MaxIter = 50
	b := NewBroyden(s)

	// x² + 1 has no real root
	res, err := b.Find(func(x []float64) []float64 {
		return []float64{x[0]*x[0] + 1, x[1]}
	}, []float64{0.5, 0.5})

	require.Error(t, err)
	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Len(t, failure.X, 2)
	assert.Equal(t, res.X, failure.X)
	assert.NotNil(t, failure.Reason)
	assert.Greater(t, failure.Norm(), 0.5)
}

func TestBroyden_NonFiniteStart(t *testing.T) {
	b := NewBroyden(DefaultSettings())

	_, err := b.Find(func(x []float64) []float64 {
		return []float64{math.NaN(), 0}
	}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestFixedPoint_Contraction(t *testing.T) {
	p := NewFixedPoint(DefaultSettings())

	res, err := p.Find(contraction, []float64{0, 0})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Norm(), 1e-10)
	assert.InDeltaSlice(t, contraction(res.X), res.F, 0)
	assert.Equal(t, res.Iterations+1, res.Evaluations)
}

func TestFixedPoint_Budget(t *testing.T) {
	s := DefaultSettings()
	s.MaxIter = 3
	p := NewFixedPoint(s)

	// g(x) = 2x diverges from any non-zero start
	res, err := p.Find(func(x []float64) []float64 {
		return []float64{x[0] - 2*x[0]}
	}, []float64{1})

	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, []float64{8}, res.X)
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{Tol: 1e-4}.withDefaults()
	d := DefaultSettings()

	assert.Equal(t, 1e-4, s.Tol)
	assert.Equal(t, d.MaxIter, s.MaxIter)
	assert.Equal(t, d.Step, s.Step)
	assert.Equal(t, d.Relax, s.Relax)
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		f, err := New(name, DefaultSettings())
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := New("newton", DefaultSettings())
	assert.ErrorIs(t, err, ErrUnknownFinder)
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{
		Result: Result{X: []float64{1, 2}, F: []float64{0.5, -0.25}, Iterations: 7},
		Reason: ErrMaxIterations,
	}

	assert.Contains(t, f.Error(), "iteration budget exhausted")
	assert.Contains(t, f.Error(), "after 7 iterations")
	assert.ErrorIs(t, f, ErrMaxIterations)
}
