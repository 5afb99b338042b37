package dynamo

import (
	"fmt"
	"math"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

const (
	// StateDim is the length of the state vector.
	StateDim = 2

	// Velocity is the index of the velocity component of a state.
	Velocity = 0
	// Displacement is the index of the displacement component of a state.
	Displacement = 1

	// DefaultFPS is the frame rate the default step size is derived from.
	DefaultFPS = 30
	// DefaultDt is the default simulation step in seconds.
	DefaultDt = 1.0 / DefaultFPS
)

// Params are the physical parameters of a mass-spring-damper.
type Params struct {
	Mass      float64 `yaml:"mass" json:"mass"`
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	Damping   float64 `yaml:"damping" json:"damping"`
}

// Validate reports ErrInvalidParameter if the mass is not positive, if
// stiffness or damping is negative, or if any value is not finite.
func (p Params) Validate() error {
	switch {
	case !finite(p.Mass) || !finite(p.Stiffness) || !finite(p.Damping):
		return fmt.Errorf("%w: non-finite parameter %+v", ErrInvalidParameter, p)
	case p.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParameter, p.Mass)
	case p.Stiffness < 0:
		return fmt.Errorf("%w: stiffness must be non-negative, got %g", ErrInvalidParameter, p.Stiffness)
	case p.Damping < 0:
		return fmt.Errorf("%w: damping must be non-negative, got %g", ErrInvalidParameter, p.Damping)
	}
	return nil
}

// Model is the continuous-time state-space form of a mass-spring-damper
//
//	dx/dt = A*x + B*u
//
// advanced with a fixed step dt. A and B never change after New.
type Model struct {
	params Params
	dt     float64
	// a is the 2x2 state matrix
	a *mat.Dense
	// b is the 2x1 input matrix
	b *mat.Dense
}

// New derives the state matrices from p:
//
//	A = [[-c/m, -k/m], [1, 0]]
//	B = [[1/m], [0]]
//
// It returns ErrInvalidParameter if p is invalid or dt is not a positive finite number.
func New(p Params, dt float64) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !finite(dt) || dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParameter, dt)
	}

	m, k, c := p.Mass, p.Stiffness, p.Damping
	a := mat.NewDense(StateDim, StateDim, []float64{
		-c / m, -k / m,
		1, 0,
	})
	b := mat.NewDense(StateDim, 1, []float64{
		1 / m,
		0,
	})

	return &Model{params: p, dt: dt, a: a, b: b}, nil
}

// Params returns the physical parameters the model was built from.
func (m *Model) Params() Params { return m.params }

// Dt returns the step size in seconds.
func (m *Model) Dt() float64 { return m.dt }

// StateMatrix returns a copy of A.
func (m *Model) StateMatrix() *mat.Dense { return mat.DenseCopyOf(m.a) }

// InputMatrix returns a copy of B.
func (m *Model) InputMatrix() *mat.Dense { return mat.DenseCopyOf(m.b) }

// Advance returns the state one step after x under the input force u:
//
//	x + dt*(A*x + B*u)
//
// x is never modified. It returns ErrDimensionMismatch if x is not a 2-vector.
func (m *Model) Advance(x mat.Vector, u float64) (*mat.VecDense, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil state vector", ErrDimensionMismatch)
	}
	if r, c := x.Dims(); r != StateDim || c != 1 {
		return nil, fmt.Errorf("%w: state vector is %dx%d, want %dx1", ErrDimensionMismatch, r, c, StateDim)
	}

	out := mat.NewVecDense(StateDim, nil)
	out.MulVec(m.a, x)

	outU := mat.NewVecDense(StateDim, nil)
	outU.ScaleVec(u, m.b.ColView(0))
	out.AddVec(out, outU)

	// integrate the derivative over one step: x + dt*dx/dt
	out.ScaleVec(m.dt, out)
	out.AddVec(x, out)

	return out, nil
}

// Discrete returns the one-step matrices equivalent to Advance:
//
//	Ad = I + dt*A
//	Bd = dt*B
//
// so that Advance(x, u) == Ad*x + Bd*u up to rounding.
func (m *Model) Discrete() (ad, bd *mat.Dense, err error) {
	eye, err := matrix.NewDenseValIdentity(StateDim, 1.0)
	if err != nil {
		return nil, nil, err
	}

	ad = mat.NewDense(StateDim, StateDim, nil)
	ad.Scale(m.dt, m.a)
	ad.Add(eye, ad)

	bd = mat.NewDense(StateDim, 1, nil)
	bd.Scale(m.dt, m.b)

	return ad, bd, nil
}

// NaturalFrequency returns sqrt(k/m) in rad/s.
func (m *Model) NaturalFrequency() float64 {
	return math.Sqrt(m.params.Stiffness / m.params.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). It is +Inf for a model without stiffness.
func (m *Model) DampingRatio() float64 {
	p := m.params
	if p.Stiffness == 0 {
		return math.Inf(1)
	}
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

// NewState returns the state vector [velocity, displacement].
func NewState(velocity, displacement float64) *mat.VecDense {
	return mat.NewVecDense(StateDim, []float64{velocity, displacement})
}

// Rest returns the equilibrium state [0, 0].
func Rest() *mat.VecDense {
	return mat.NewVecDense(StateDim, nil)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
