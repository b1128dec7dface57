package rootfind

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrMaxIterations indicates the iteration budget ran out.
	ErrMaxIterations = errors.New("rootfind: iteration budget exhausted")

	// ErrStagnated indicates the residual norm stopped decreasing.
	ErrStagnated = errors.New("rootfind: residual stagnated")

	// ErrSingular indicates a Jacobian that could not be inverted.
	ErrSingular = errors.New("rootfind: singular jacobian")

	// ErrNonFinite indicates the residual evaluated to NaN or Inf.
	ErrNonFinite = errors.New("rootfind: non-finite residual")

	// ErrUnknownFinder indicates a finder name missing from the registry.
	ErrUnknownFinder = errors.New("rootfind: unknown finder")
)

// Func is a residual function. It must return a slice of len(x).
type Func func(x []float64) []float64

// Finder locates a root of f starting at x0.
type Finder interface {
	Find(f Func, x0 []float64) (Result, error)
}

// Result holds the last accepted iterate. F is f(X).
type Result struct {
	X           []float64
	F           []float64
	Iterations  int
	Evaluations int
}

// Norm is the max-norm of F.
func (r Result) Norm() float64 {
	if len(r.F) == 0 {
		return math.Inf(1)
	}
	return floats.Norm(r.F, math.Inf(1))
}

// Failure is returned when no root was found. It carries the last iterate.
type Failure struct {
	Result
	Reason error
}

func (e *Failure) Error() string {
	return fmt.Sprintf("%v after %d iterations (|F|=%.3e at x=%v)", e.Reason, e.Iterations, e.Norm(), e.X)
}

func (e *Failure) Unwrap() error {
	return e.Reason
}

// Settings bound the iteration.
type Settings struct {
	// Tol is the absolute max-norm tolerance on F.
	Tol float64 `yaml:"tol"`
	// MaxIter is the iteration budget.
	MaxIter int `yaml:"max_iter"`
	// Step is the relative finite-difference step for Jacobian estimates.
	Step float64 `yaml:"step"`
	// Stall is how many non-improving iterations are tolerated.
	Stall int `yaml:"stall"`
	// Relax is the fixed-point relaxation weight.
	Relax float64 `yaml:"relax"`
}

func DefaultSettings() Settings {
	return Settings{
		Tol:     1e-10,
		MaxIter: 200,
		Step:    1e-7,
		Stall:   8,
		Relax:   1.0,
	}
}

// withDefaults fills zero fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Tol <= 0 {
		s.Tol = d.Tol
	}
	if s.MaxIter <= 0 {
		s.MaxIter = d.MaxIter
	}
	if s.Step <= 0 {
		s.Step = d.Step
	}
	if s.Stall <= 0 {
		s.Stall = d.Stall
	}
	if s.Relax <= 0 {
		s.Relax = d.Relax
	}
	return s
}

var registry = map[string]func(Settings) Finder{
	"broyden":     func(s Settings) Finder { return NewBroyden(s) },
	"fixed-point": func(s Settings) Finder { return NewFixedPoint(s) },
}

// New returns the named finder configured with s.
func New(name string, s Settings) (Finder, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFinder, name, Names())
	}
	return fn(s), nil
}

// Names lists registered finder names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
