package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SweepPoint is the response of one model in a parameter sweep.
type SweepPoint struct {
	Param          float64
	Final          float64 // displacement at the last step
	Peak           float64 // largest absolute displacement
	SpectralRadius float64
	Stable         bool
}

// Sweep re-simulates base while the named parameter ("mass", "stiffness" or
// "damping") takes steps evenly spaced values in [lo, hi]. Each run starts
// from x0 and uses the same input and step count.
//
// This is useful to see where a step size stops being stable as stiffness
// grows, or how damping trades overshoot against settling.
func Sweep(
	ctx context.Context,
	base dynamo.Params,
	dt float64,
	param string,
	lo, hi float64,
	steps int,
	x0 mat.Vector,
	in dynamo.Input,
	numSteps int,
) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one value, got %d", dynamo.ErrInvalidParameter, steps)
	}

	values := make([]float64, steps)
	if steps == 1 {
		values[0] = lo
	} else {
		floats.Span(values, lo, hi)
	}

	results := make([]SweepPoint, 0, steps)
	for _, v := range values {
		p := base
		switch param {
		case "mass":
			p.Mass = v
		case "stiffness":
			p.Stiffness = v
		case "damping":
			p.Damping = v
		default:
			return nil, fmt.Errorf("%w: unknown sweep parameter %q", dynamo.ErrInvalidParameter, param)
		}

		m, err := dynamo.New(p, dt)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		report, err := m.Stability()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		traj, err := dynamo.Simulate(ctx, m, x0, in, numSteps)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}

		peak := 0.0
		for _, d := range traj.Displacements() {
			peak = math.Max(peak, math.Abs(d))
		}

		results = append(results, SweepPoint{
			Param:          v,
			Final:          traj.Displacement(traj.Len() - 1),
			Peak:           peak,
			SpectralRadius: report.SpectralRadius,
			Stable:         report.Stable,
		})
	}

	return results, nil
}
