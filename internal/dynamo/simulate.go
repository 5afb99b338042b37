package dynamo

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Observer is notified after every successful step with the new state and
// the force that produced it. Observers must not modify x.
type Observer interface {
	OnStep(step int, x mat.Vector, u float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, x mat.Vector, u float64)

// OnStep implements Observer.
func (f ObserverFunc) OnStep(step int, x mat.Vector, u float64) { f(step, x, u) }

// Simulate advances m from x0 for numSteps steps, applying in.Force(i) at
// step i = 1..numSteps, and returns all numSteps+1 states.
//
// The context is checked once per step. Any failure aborts the run and no
// partial trajectory is returned. Step failures are reported as
// *SimulationError wrapping the underlying sentinel.
func Simulate(ctx context.Context, m *Model, x0 mat.Vector, in Input, numSteps int, obs ...Observer) (*Trajectory, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidParameter)
	}
	if in == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidParameter)
	}
	if numSteps < 0 {
		return nil, fmt.Errorf("%w: number of steps must be non-negative, got %d", ErrInvalidParameter, numSteps)
	}
	if x0 == nil {
		return nil, fmt.Errorf("%w: nil initial state", ErrDimensionMismatch)
	}
	if r, c := x0.Dims(); r != StateDim || c != 1 {
		return nil, fmt.Errorf("%w: initial state is %dx%d, want %dx1", ErrDimensionMismatch, r, c, StateDim)
	}

	traj := &Trajectory{
		dt:     m.dt,
		states: make([]*mat.VecDense, 0, numSteps+1),
		forces: make([]float64, 0, numSteps),
	}

	x := mat.VecDenseCopyOf(x0)
	traj.states = append(traj.states, x)

	for i := 1; i <= numSteps; i++ {
		select {
		case <-ctx.Done():
			return nil, &SimulationError{Step: i, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())}
		default:
		}

		u, err := in.Force(i)
		if err != nil {
			return nil, &SimulationError{Step: i, Wrapped: err}
		}

		next, err := m.Advance(x, u)
		if err != nil {
			return nil, &SimulationError{Step: i, Wrapped: err}
		}

		for _, o := range obs {
			o.OnStep(i, next, u)
		}

		traj.states = append(traj.states, next)
		traj.forces = append(traj.forces, u)
		x = next
	}

	return traj, nil
}
