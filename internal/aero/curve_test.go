package aero

import (
	"errors"
	"math"
	"testing"
)

func TestCurve_AtBreakpoints(t *testing.T) {
	xs := []float64{0, 1, 2, 4}
	ys := []float64{1, 3, 2, 6}
	c := MustCurve(xs, ys)

	for i := range xs {
		if got := c.At(xs[i]); got != ys[i] {
			t.Errorf("At(%v) = %v, want %v", xs[i], got, ys[i])
		}
	}
}

func TestCurve_Interpolates(t *testing.T) {
	c := MustCurve([]float64{0, 1, 2, 4}, []float64{1, 3, 2, 6})

	tests := []struct {
		x    float64
		want float64
	}{
		{0.5, 2},
		{0.25, 1.5},
		{1.5, 2.5},
		{3, 4},
		{3.5, 5},
	}

	for _, tt := range tests {
		if got := c.At(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestCurve_ExtrapolatesWithEndSlopes(t *testing.T) {
	c := MustCurve([]float64{0, 1, 2, 4}, []float64{1, 3, 2, 6})

	// first segment slope 2, last segment slope 2
	if got := c.At(-1); math.Abs(got-(-1)) > 1e-12 {
		t.Errorf("At(-1) = %v, want -1", got)
	}
	if got := c.At(6); math.Abs(got-10) > 1e-12 {
		t.Errorf("At(6) = %v, want 10", got)
	}
}

func TestCurve_MonotonicBetweenMonotonicBreakpoints(t *testing.T) {
	c := MustCurve([]float64{0, 0.1, 0.3, 0.7}, []float64{0, 0.5, 0.6, 1.4})

	prev := c.At(0)
	for x := 0.0; x <= 0.7; x += 0.001 {
		v := c.At(x)
		if v < prev-1e-15 {
			t.Fatalf("curve decreased at x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
}

func TestNewCurve_Rejects(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want error
	}{
		{"single point", []float64{1}, []float64{1}, ErrShortCurve},
		{"length mismatch", []float64{1, 2}, []float64{1}, ErrLengthMismatch},
		{"descending", []float64{2, 1}, []float64{1, 1}, ErrNotIncreasing},
		{"duplicate", []float64{1, 1, 2}, []float64{1, 1, 1}, ErrNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurve(tt.xs, tt.ys)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewCurve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCurve_CopiesInput(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{0, 1}
	c := MustCurve(xs, ys)

	xs[1] = 10
	ys[1] = 10

	if got := c.At(1); got != 1 {
		t.Errorf("curve aliased caller slices: At(1) = %v", got)
	}
}
