package bem

import (
	"errors"
	"fmt"
)

// Domain errors for element and rotor evaluation.
var (
	// ErrInvalidInput indicates a non-physical element parameter.
	ErrInvalidInput = errors.New("bem: invalid element input")

	// ErrConvergence indicates the inflow iteration did not converge.
	ErrConvergence = errors.New("bem: inflow iteration did not converge")

	// ErrMisaligned indicates thrust and torque sequences of different length.
	ErrMisaligned = errors.New("bem: thrust and torque sequences are not index-aligned")

	// ErrUnknownFormulation indicates a formulation name missing from the registry.
	ErrUnknownFormulation = errors.New("bem: unknown inflow formulation")
)

// InvalidInputError names the offending parameter.
type InvalidInputError struct {
	Field string
	Value float64
	Rule  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s=%g (must be %s)", ErrInvalidInput, e.Field, e.Value, e.Rule)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ConvergenceError carries the last iterate for diagnostics. Cause is the
// root finder's reason.
type ConvergenceError struct {
	A, B       float64
	Residual   [2]float64
	Iterations int
	Cause      error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: a=%.6g b=%.6g residual=(%.3e, %.3e) after %d iterations: %v",
		ErrConvergence, e.A, e.B, e.Residual[0], e.Residual[1], e.Iterations, e.Cause)
}

// Unwrap exposes both ErrConvergence and the finder's reason.
func (e *ConvergenceError) Unwrap() []error {
	return []error{ErrConvergence, e.Cause}
}

// ElementError attaches the station index to an element failure.
type ElementError struct {
	Index   int
	Wrapped error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Wrapped)
}

func (e *ElementError) Unwrap() error {
	return e.Wrapped
}
