package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// DefaultSegment is the Welch segment length used by the CLI.
const DefaultSegment = 128

// WindowedSpectrum is PowerSpectrum with a Hann window applied first, which
// trades a wider peak for much lower leakage into neighbouring bins.
func WindowedSpectrum(data []float64, dt float64) (Spectrum, error) {
	n := len(data)
	if n < 4 {
		return Spectrum{}, ErrTooShort
	}

	seq := make([]float64, n)
	copy(seq, data)
	floats.AddConst(-floats.Sum(seq)/float64(n), seq)
	window.Apply(seq, window.Hann)

	coeff := fft.FFTReal(seq)

	half := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		s.Freqs[i] = float64(i) / (float64(n) * dt)
		s.Power[i] = cmplx.Abs(coeff[i])
	}
	return s, nil
}

// WelchPSD estimates the power spectral density of the displacement of traj
// by averaging Hann windowed segments of length segment with 50% overlap.
func WelchPSD(traj *dynamo.Trajectory, segment int) (Spectrum, error) {
	data := traj.Displacements()
	if segment < 4 || segment%2 != 0 || len(data) < segment {
		return Spectrum{}, ErrTooShort
	}

	floats.AddConst(-floats.Sum(data)/float64(len(data)), data)

	pxx, freqs := spectral.Pwelch(data, 1/traj.Dt(), &spectral.PwelchOptions{
		NFFT:     segment,
		Noverlap: segment / 2,
		Window:   window.Hann,
	})
	return Spectrum{Freqs: freqs, Power: pxx}, nil
}
