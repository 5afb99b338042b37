package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newRefModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(refParams, DefaultDt)
	require.NoError(t, err)
	return m
}

func TestSimulateLength(t *testing.T) {
	m := newRefModel(t)

	for _, n := range []int{0, 1, 10, 499} {
		traj, err := Simulate(context.Background(), m, Rest(), ReferenceSchedule(), n)
		require.NoError(t, err)
		assert.Equal(t, n+1, traj.Len())
		assert.Equal(t, n, traj.Steps())
		assert.Len(t, traj.Forces(), n)
	}
}

func TestSimulateZeroStepsKeepsInitialState(t *testing.T) {
	m := newRefModel(t)
	x0 := NewState(0.4, -1.2)

	traj, err := Simulate(context.Background(), m, x0, Constant(3), 0)
	require.NoError(t, err)
	assert.True(t, mat.Equal(x0, traj.At(0)))

	// the trajectory owns its own copy of x0
	x0.SetVec(0, 99)
	assert.Equal(t, 0.4, traj.Velocity(0))
}

func TestSimulateDeterministic(t *testing.T) {
	m := newRefModel(t)

	a, err := Simulate(context.Background(), m, Rest(), ReferenceSchedule(), 499)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), m, Rest(), ReferenceSchedule(), 499)
	require.NoError(t, err)

	assert.Equal(t, a.Displacements(), b.Displacements())
	assert.Equal(t, a.Velocities(), b.Velocities())
}

func TestSimulateEquilibriumIsFixedPoint(t *testing.T) {
	m := newRefModel(t)

	traj, err := Simulate(context.Background(), m, Rest(), Constant(0), 200)
	require.NoError(t, err)
	for i := 0; i < traj.Len(); i++ {
		assert.Equal(t, 0.0, traj.Velocity(i))
		assert.Equal(t, 0.0, traj.Displacement(i))
	}
}

func TestSimulateExtendsWithoutRewriting(t *testing.T) {
	m := newRefModel(t)
	in := ReferenceSchedule()

	for _, n := range []int{0, 9, 10, 199, 300} {
		short, err := Simulate(context.Background(), m, Rest(), in, n)
		require.NoError(t, err)
		long, err := Simulate(context.Background(), m, Rest(), in, n+1)
		require.NoError(t, err)

		require.Equal(t, short.Len()+1, long.Len())
		for i := 0; i < short.Len(); i++ {
			assert.True(t, mat.Equal(short.At(i), long.At(i)), "n=%d state %d", n, i)
		}

		u, err := in.Force(n + 1)
		require.NoError(t, err)
		want, err := m.Advance(short.Final(), u)
		require.NoError(t, err)
		assert.True(t, mat.Equal(want, long.Final()), "n=%d", n)
	}
}

func TestSimulateStepIndicesStartAtOne(t *testing.T) {
	m := newRefModel(t)

	var seen []int
	in := Func(func(step int) float64 {
		seen = append(seen, step)
		return 0
	})

	_, err := Simulate(context.Background(), m, Rest(), in, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

func TestSimulateObservers(t *testing.T) {
	m := newRefModel(t)

	var steps []int
	var forces []float64
	obs := ObserverFunc(func(step int, x mat.Vector, u float64) {
		steps = append(steps, step)
		forces = append(forces, u)
	})

	traj, err := Simulate(context.Background(), m, Rest(), ReferenceSchedule(), 12, obs)
	require.NoError(t, err)
	assert.Len(t, steps, 12)
	assert.Equal(t, traj.Forces(), forces)
	assert.Equal(t, 10.0, forces[9])
}

func TestSimulateInvalidArguments(t *testing.T) {
	m := newRefModel(t)
	ctx := context.Background()

	_, err := Simulate(ctx, nil, Rest(), Constant(0), 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Simulate(ctx, m, Rest(), nil, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Simulate(ctx, m, Rest(), Constant(0), -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Simulate(ctx, m, nil, Constant(0), 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Simulate(ctx, m, mat.NewVecDense(3, nil), Constant(0), 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSimulateInputFailureAborts(t *testing.T) {
	m := newRefModel(t)

	in := VectorFunc(func(step int) mat.Vector {
		if step == 5 {
			return mat.NewVecDense(2, nil)
		}
		return mat.NewVecDense(1, []float64{1})
	})

	traj, err := Simulate(context.Background(), m, Rest(), in, 10)
	assert.Nil(t, traj)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	var simErr *SimulationError
	require.True(t, errors.As(err, &simErr))
	assert.Equal(t, 5, simErr.Step)
}

func TestSimulateCanceled(t *testing.T) {
	m := newRefModel(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	in := Func(func(step int) float64 {
		calls++
		if step == 3 {
			cancel()
		}
		return 1
	})

	traj, err := Simulate(ctx, m, Rest(), in, 100)
	assert.Nil(t, traj)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestTrajectoryAccessors(t *testing.T) {
	m := newRefModel(t)

	traj, err := Simulate(context.Background(), m, Rest(), ReferenceSchedule(), 30)
	require.NoError(t, err)

	assert.Equal(t, DefaultDt, traj.Dt())
	assert.InDelta(t, 1.0, traj.Time(30), 1e-12)
	assert.Len(t, traj.Times(), 31)
	assert.True(t, traj.IsFinite())

	s := traj.At(5)
	s.SetVec(Displacement, 1e6)
	assert.NotEqual(t, 1e6, traj.Displacement(5))

	mx := traj.Matrix()
	r, c := mx.Dims()
	assert.Equal(t, 31, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, traj.Displacement(17), mx.At(17, Displacement))
}

func TestTrajectoryDivergence(t *testing.T) {
	// dt far beyond the stability bound of a stiff spring
	m, err := New(Params{Mass: 1, Stiffness: 1e6, Damping: 1}, 1)
	require.NoError(t, err)

	traj, err := Simulate(context.Background(), m, NewState(0, 1), Constant(0), 200)
	require.NoError(t, err)
	assert.False(t, traj.IsFinite())
}

func TestNewTrajectory(t *testing.T) {
	rows := [][]float64{{0, 0}, {1, 2}, {3, 4}}

	traj, err := NewTrajectory(0.1, rows, []float64{5, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, traj.Len())
	assert.Equal(t, []float64{0, 2, 4}, traj.Displacements())
	assert.Equal(t, []float64{5, 6}, traj.Forces())

	_, err = NewTrajectory(0.1, [][]float64{{1}}, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewTrajectory(0.1, rows, []float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewTrajectory(0.1, nil, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewTrajectory(0, rows, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
