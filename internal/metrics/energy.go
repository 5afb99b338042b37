package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// MechanicalEnergy returns ½mv² + ½kd² for state x.
func MechanicalEnergy(p dynamo.Params, x mat.Vector) float64 {
	v, d := x.AtVec(dynamo.Velocity), x.AtVec(dynamo.Displacement)
	return 0.5*p.Mass*v*v + 0.5*p.Stiffness*d*d
}

// Energy tracks the mechanical energy stored in the oscillator. Value is the
// energy after the last observed step.
type Energy struct {
	name    string
	params  dynamo.Params
	samples int
	last    float64
	peak    float64
}

func NewEnergy(p dynamo.Params) *Energy {
	return &Energy{
		name:   "energy",
		params: p,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(step int, x mat.Vector, u float64) {
	if x == nil || x.Len() != dynamo.StateDim {
		return
	}
	e.last = MechanicalEnergy(e.params, x)
	e.peak = math.Max(e.peak, e.last)
	e.samples++
}

func (e *Energy) Value() float64 {
	return e.last
}

// Peak returns the largest energy seen so far.
func (e *Energy) Peak() float64 { return e.peak }

func (e *Energy) Reset() {
	e.last = 0
	e.peak = 0
	e.samples = 0
}

// EnergyDrift measures the largest relative change in mechanical energy from
// the first observed step. For an unforced, undamped model a correct
// integrator keeps it at zero; forward Euler makes it grow, which is how an
// unstable step size shows up in the numbers.
type EnergyDrift struct {
	name          string
	params        dynamo.Params
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(p dynamo.Params) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		params: p,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(step int, x mat.Vector, u float64) {
	if x == nil || x.Len() != dynamo.StateDim {
		return
	}
	energy := MechanicalEnergy(e.params, x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
