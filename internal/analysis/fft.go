package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// ErrTooShort is returned when a signal has too few samples to analyse.
var ErrTooShort = errors.New("analysis: signal too short")

// Spectrum is a one-sided amplitude spectrum. Freqs are in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// Peak returns the index of the strongest non-DC bin.
func (s Spectrum) Peak() int {
	if len(s.Power) < 2 {
		return 0
	}
	return 1 + floats.MaxIdx(s.Power[1:])
}

// PowerSpectrum computes the amplitude spectrum of data sampled every dt
// seconds. The mean is removed first so a static offset does not swamp the
// oscillation.
func PowerSpectrum(data []float64, dt float64) (Spectrum, error) {
	n := len(data)
	if n < 4 {
		return Spectrum{}, ErrTooShort
	}

	seq := make([]float64, n)
	copy(seq, data)
	floats.AddConst(-floats.Sum(seq)/float64(n), seq)

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)

	s := Spectrum{
		Freqs: make([]float64, len(coeff)),
		Power: make([]float64, len(coeff)),
	}
	for i, c := range coeff {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Power[i] = cmplx.Abs(c)
	}
	return s, nil
}

// DisplacementSpectrum is PowerSpectrum over the displacement of traj.
func DisplacementSpectrum(traj *dynamo.Trajectory) (Spectrum, error) {
	return PowerSpectrum(traj.Displacements(), traj.Dt())
}

// DominantFrequency returns the frequency in Hz of the strongest
// oscillation in the displacement of traj.
func DominantFrequency(traj *dynamo.Trajectory) (float64, error) {
	s, err := DisplacementSpectrum(traj)
	if err != nil {
		return 0, err
	}
	return s.Freqs[s.Peak()], nil
}
