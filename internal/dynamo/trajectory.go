package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Trajectory is the state history of one simulation run. Index i holds the
// state after step i; index 0 is the initial state. A Trajectory is never
// modified after Simulate returns it and all accessors return copies.
type Trajectory struct {
	dt     float64
	states []*mat.VecDense
	// forces[i-1] is the force applied to reach states[i]
	forces []float64
}

// Len returns the number of states, i.e. the number of steps plus one.
func (t *Trajectory) Len() int { return len(t.states) }

// Steps returns the number of steps taken.
func (t *Trajectory) Steps() int { return len(t.states) - 1 }

// Dt returns the step size the trajectory was computed with.
func (t *Trajectory) Dt() float64 { return t.dt }

// Time returns the simulated time of state i.
func (t *Trajectory) Time(i int) float64 { return float64(i) * t.dt }

// At returns a copy of state i. It panics if i is out of range.
func (t *Trajectory) At(i int) *mat.VecDense {
	return mat.VecDenseCopyOf(t.states[i])
}

// Final returns a copy of the last state.
func (t *Trajectory) Final() *mat.VecDense {
	return t.At(len(t.states) - 1)
}

// Velocity returns the velocity component of state i.
func (t *Trajectory) Velocity(i int) float64 { return t.states[i].AtVec(Velocity) }

// Displacement returns the displacement component of state i.
func (t *Trajectory) Displacement(i int) float64 { return t.states[i].AtVec(Displacement) }

// Displacements returns the displacement of every state in order.
func (t *Trajectory) Displacements() []float64 { return t.component(Displacement) }

// Velocities returns the velocity of every state in order.
func (t *Trajectory) Velocities() []float64 { return t.component(Velocity) }

// Times returns the simulated time of every state in order.
func (t *Trajectory) Times() []float64 {
	out := make([]float64, len(t.states))
	for i := range out {
		out[i] = t.Time(i)
	}
	return out
}

// Forces returns the force applied at steps 1..Steps(). Element i-1 is the
// force that produced state i.
func (t *Trajectory) Forces() []float64 {
	out := make([]float64, len(t.forces))
	copy(out, t.forces)
	return out
}

// Matrix returns the states as the rows of a Len()x2 matrix.
func (t *Trajectory) Matrix() *mat.Dense {
	out := mat.NewDense(len(t.states), StateDim, nil)
	for i, s := range t.states {
		out.SetRow(i, s.RawVector().Data)
	}
	return out
}

// IsFinite reports whether no state holds NaN or Inf. A false result
// usually means the step size is too large for the model parameters.
func (t *Trajectory) IsFinite() bool {
	for _, s := range t.states {
		for i := 0; i < s.Len(); i++ {
			v := s.AtVec(i)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func (t *Trajectory) component(idx int) []float64 {
	out := make([]float64, len(t.states))
	for i, s := range t.states {
		out[i] = s.AtVec(idx)
	}
	return out
}

// NewTrajectory rebuilds a trajectory from stored rows of [velocity, displacement]
// and the forces that produced them. It returns ErrDimensionMismatch if a row
// is not a state or the force count is neither 0 nor len(rows)-1.
func NewTrajectory(dt float64, rows [][]float64, forces []float64) (*Trajectory, error) {
	if !finite(dt) || dt <= 0 {
		return nil, wrapf(ErrInvalidParameter, "dt must be positive, got %g", dt)
	}
	if len(rows) == 0 {
		return nil, wrapf(ErrDimensionMismatch, "trajectory needs at least the initial state")
	}
	if len(forces) != 0 && len(forces) != len(rows)-1 {
		return nil, wrapf(ErrDimensionMismatch, "%d forces for %d states", len(forces), len(rows))
	}

	t := &Trajectory{dt: dt, states: make([]*mat.VecDense, len(rows))}
	for i, r := range rows {
		if len(r) != StateDim {
			return nil, wrapf(ErrDimensionMismatch, "row %d has %d values, want %d", i, len(r), StateDim)
		}
		t.states[i] = NewState(r[Velocity], r[Displacement])
	}
	t.forces = make([]float64, len(forces))
	copy(t.forces, forces)

	return t, nil
}
