package dynamo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReferenceSchedule(t *testing.T) {
	s := ReferenceSchedule()

	tests := []struct {
		step int
		want float64
	}{
		{1, 5}, {9, 5},
		{10, 10}, {199, 10},
		{200, 20}, {299, 20},
		{300, 0}, {499, 0}, {10000, 0},
	}

	for _, tt := range tests {
		got, err := s.Force(tt.step)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "step %d", tt.step)
	}
}

func TestNewScheduleRejectsUnorderedSegments(t *testing.T) {
	s, err := NewSchedule(0, Segment{Until: 10, Force: 1}, Segment{Until: 10, Force: 2})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	s, err = NewSchedule(0, Segment{Until: 20, Force: 1}, Segment{Until: 5, Force: 2})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestScheduleSegmentsAreCopied(t *testing.T) {
	segs := []Segment{{Until: 3, Force: 1}}
	s, err := NewSchedule(7, segs...)
	require.NoError(t, err)

	segs[0].Force = 99
	got := s.Segments()
	got[0].Force = 42

	f, _ := s.Force(1)
	assert.Equal(t, 1.0, f)
	assert.Equal(t, 7.0, s.Otherwise())
}

func TestEmptyScheduleUsesOtherwise(t *testing.T) {
	s, err := NewSchedule(3.5)
	require.NoError(t, err)

	f, err := s.Force(1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)
}

func TestConstantAndFunc(t *testing.T) {
	f, err := Constant(2.5).Force(123)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	fn := Func(func(step int) float64 { return float64(step) * 2 })
	f, err = fn.Force(4)
	require.NoError(t, err)
	assert.Equal(t, 8.0, f)
}

func TestVectorFunc(t *testing.T) {
	ok := VectorFunc(func(step int) mat.Vector { return mat.NewVecDense(1, []float64{float64(step)}) })
	f, err := ok.Force(6)
	require.NoError(t, err)
	assert.Equal(t, 6.0, f)

	wide := VectorFunc(func(int) mat.Vector { return mat.NewVecDense(2, nil) })
	_, err = wide.Force(1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	none := VectorFunc(func(int) mat.Vector { return nil })
	_, err = none.Force(1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
