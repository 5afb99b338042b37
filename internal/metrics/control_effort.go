package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ControlEffort is the mean absolute force applied per step. A run with no
// steps has zero effort.
type ControlEffort struct {
	sum   float64
	peak  float64
	steps int
}

// NewControlEffort returns an empty control effort metric.
func NewControlEffort() *ControlEffort { return &ControlEffort{} }

// Name implements Metric.
func (c *ControlEffort) Name() string { return "control_effort" }

// OnStep adds |u| for the step. The state is ignored.
func (c *ControlEffort) OnStep(_ int, _ mat.Vector, u float64) {
	a := math.Abs(u)
	c.sum += a
	c.peak = math.Max(c.peak, a)
	c.steps++
}

// Value returns the mean absolute force over the observed steps.
func (c *ControlEffort) Value() float64 {
	if c.steps == 0 {
		return 0
	}
	return c.sum / float64(c.steps)
}

// Peak returns the largest absolute force seen so far.
func (c *ControlEffort) Peak() float64 { return c.peak }

// Reset implements Metric.
func (c *ControlEffort) Reset() { *c = ControlEffort{} }
