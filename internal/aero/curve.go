package aero

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrShortCurve indicates a curve with fewer than two breakpoints.
	ErrShortCurve = errors.New("aero: curve needs at least two breakpoints")

	// ErrLengthMismatch indicates abscissa and ordinate slices of different length.
	ErrLengthMismatch = errors.New("aero: breakpoint and value counts differ")

	// ErrNotIncreasing indicates breakpoints that are not strictly ascending.
	ErrNotIncreasing = errors.New("aero: breakpoints must be strictly increasing")

	// ErrUnknownModel indicates a model name missing from the registry.
	ErrUnknownModel = errors.New("aero: unknown coefficient model")
)

// Curve is a piecewise-linear function over strictly increasing breakpoints.
// Queries outside the tabulated range continue the first or last segment.
type Curve struct {
	xs []float64
	ys []float64
}

// NewCurve copies xs and ys into a new curve.
func NewCurve(xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d breakpoints, %d values", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, ErrShortCurve
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%g after x[%d]=%g", ErrNotIncreasing, i, xs[i], i-1, xs[i-1])
		}
	}

	c := &Curve{
		xs: make([]float64, len(xs)),
		ys: make([]float64, len(ys)),
	}
	copy(c.xs, xs)
	copy(c.ys, ys)
	return c, nil
}

// MustCurve is NewCurve for package-level tables known to be valid.
func MustCurve(xs, ys []float64) *Curve {
	c, err := NewCurve(xs, ys)
	if err != nil {
		panic(err)
	}
	return c
}

// At evaluates the curve at x.
func (c *Curve) At(x float64) float64 {
	n := len(c.xs)
	i := sort.SearchFloat64s(c.xs, x)
	if i < n && c.xs[i] == x {
		return c.ys[i]
	}

	// segment [seg, seg+1] brackets x, or is the end segment to extrapolate
	seg := i - 1
	if seg < 0 {
		seg = 0
	}
	if seg > n-2 {
		seg = n - 2
	}

	slope := (c.ys[seg+1] - c.ys[seg]) / (c.xs[seg+1] - c.xs[seg])
	return c.ys[seg] + slope*(x-c.xs[seg])
}

// Breakpoints returns a copy of the abscissae.
func (c *Curve) Breakpoints() []float64 {
	out := make([]float64, len(c.xs))
	copy(out, c.xs)
	return out
}

// Values returns a copy of the ordinates.
func (c *Curve) Values() []float64 {
	out := make([]float64, len(c.ys))
	copy(out, c.ys)
	return out
}

// Range returns the first and last breakpoint.
func (c *Curve) Range() (lo, hi float64) {
	return c.xs[0], c.xs[len(c.xs)-1]
}
