package dynamo

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// StabilityReport describes the growth of the unforced Euler recurrence.
type StabilityReport struct {
	// SpectralRadius is the largest eigenvalue magnitude of I + dt*A.
	SpectralRadius float64 `json:"spectral_radius"`
	// Stable is true when SpectralRadius does not exceed 1, i.e. the
	// free response does not grow from step to step.
	Stable bool `json:"stable"`
}

func (r StabilityReport) String() string {
	state := "stable"
	if !r.Stable {
		state = "unstable"
	}
	return fmt.Sprintf("%s (spectral radius %.6f)", state, r.SpectralRadius)
}

// Stability inspects the discrete step matrix of m. The result is advisory:
// Advance and Simulate never consult it.
func (m *Model) Stability() (StabilityReport, error) {
	ad, _, err := m.Discrete()
	if err != nil {
		return StabilityReport{}, err
	}

	var eig mat.Eigen
	if ok := eig.Factorize(ad, mat.EigenNone); !ok {
		return StabilityReport{}, fmt.Errorf("eigen decomposition of step matrix failed")
	}

	radius := 0.0
	for _, v := range eig.Values(nil) {
		if abs := cmplx.Abs(v); abs > radius {
			radius = abs
		}
	}

	// tolerate eigen solver rounding on marginal models such as k == c == 0
	return StabilityReport{
		SpectralRadius: radius,
		Stable:         radius <= 1+1e-12,
	}, nil
}
