package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Input supplies the external force applied at a simulation step.
// Steps are numbered from 1; the initial state is never paired with a force.
// Implementations must be pure: the same step always yields the same force.
type Input interface {
	Force(step int) (float64, error)
}

// Constant applies the same force at every step.
type Constant float64

// Force implements Input.
func (c Constant) Force(int) (float64, error) { return float64(c), nil }

// Segment applies Force to every step below Until that no earlier
// segment of the schedule already covers.
type Segment struct {
	Until int     `yaml:"until" json:"until"`
	Force float64 `yaml:"force" json:"force"`
}

// Schedule is a piecewise-constant force profile.
type Schedule struct {
	segments  []Segment
	otherwise float64
}

// NewSchedule returns a schedule that applies the segments in order and
// otherwise once the last segment has ended. Segment boundaries must be
// strictly increasing.
func NewSchedule(otherwise float64, segments ...Segment) (*Schedule, error) {
	for i := 1; i < len(segments); i++ {
		if segments[i].Until <= segments[i-1].Until {
			return nil, fmt.Errorf("%w: schedule boundaries must increase, got %d after %d",
				ErrInvalidParameter, segments[i].Until, segments[i-1].Until)
		}
	}
	s := make([]Segment, len(segments))
	copy(s, segments)
	return &Schedule{segments: s, otherwise: otherwise}, nil
}

// ReferenceSchedule returns the demo force profile:
// 5 below step 10, 10 below 200, 20 below 300 and 0 afterwards.
func ReferenceSchedule() *Schedule {
	s, _ := NewSchedule(0,
		Segment{Until: 10, Force: 5},
		Segment{Until: 200, Force: 10},
		Segment{Until: 300, Force: 20},
	)
	return s
}

// Force implements Input.
func (s *Schedule) Force(step int) (float64, error) {
	for _, seg := range s.segments {
		if step < seg.Until {
			return seg.Force, nil
		}
	}
	return s.otherwise, nil
}

// Segments returns a copy of the schedule segments.
func (s *Schedule) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Otherwise returns the force applied after the last segment.
func (s *Schedule) Otherwise() float64 { return s.otherwise }

// Func adapts an arbitrary scalar callback.
type Func func(step int) float64

// Force implements Input.
func (f Func) Force(step int) (float64, error) { return f(step), nil }

// VectorFunc adapts a callback producing the input as a vector. The vector
// must hold exactly one element.
type VectorFunc func(step int) mat.Vector

// Force implements Input. It returns ErrDimensionMismatch for anything but
// a single-element vector.
func (f VectorFunc) Force(step int) (float64, error) {
	v := f(step)
	if v == nil {
		return 0, fmt.Errorf("%w: nil input vector", ErrDimensionMismatch)
	}
	if r, c := v.Dims(); r != 1 || c != 1 {
		return 0, fmt.Errorf("%w: input is %dx%d, want scalar", ErrDimensionMismatch, r, c)
	}
	return v.AtVec(0), nil
}
