package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a physical or run parameter outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrDimensionMismatch indicates a state or input with the wrong shape.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrCanceled indicates the simulation was interrupted through its context.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrNumericDivergence describes a trajectory whose values grew without bound.
	// The integrator never returns it; callers may use it after checking
	// [Trajectory.IsFinite].
	ErrNumericDivergence = errors.New("dynamo: numeric divergence")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
