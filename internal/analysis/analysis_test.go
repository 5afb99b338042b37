package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeOscillation(t *testing.T, p dynamo.Params, steps int) *dynamo.Trajectory {
	t.Helper()
	m, err := dynamo.New(p, dynamo.DefaultDt)
	require.NoError(t, err)
	traj, err := dynamo.Simulate(context.Background(), m, dynamo.NewState(0, 1), dynamo.Constant(0), steps)
	require.NoError(t, err)
	return traj
}

func TestPowerSpectrumSine(t *testing.T) {
	dt := 0.01
	n := 400
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	s, err := PowerSpectrum(data, dt)
	require.NoError(t, err)
	assert.Len(t, s.Freqs, n/2+1)
	assert.InDelta(t, 5.0, s.Freqs[s.Peak()], 1e-9)
	// mean removed
	assert.InDelta(t, 0.0, s.Power[0], 1e-9)
}

func TestPowerSpectrumTooShort(t *testing.T) {
	_, err := PowerSpectrum([]float64{1, 2}, 0.1)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestDominantFrequencyNearNatural(t *testing.T) {
	p := dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}
	traj := freeOscillation(t, p, 900)

	f, err := DominantFrequency(traj)
	require.NoError(t, err)

	fn := math.Sqrt(p.Stiffness/p.Mass) / (2 * math.Pi)
	// bin width is 1/(901 dt), about 0.033 Hz
	assert.InDelta(t, fn, f, 0.1)
}

func TestPeriodFromCrossings(t *testing.T) {
	p := dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}
	traj := freeOscillation(t, p, 900)

	period := Period(traj, 0, 0)
	want := 2 * math.Pi / math.Sqrt(p.Stiffness/p.Mass)
	assert.InDelta(t, want, period, 0.05)

	assert.Empty(t, Crossings(traj, 10, 0))
	assert.Equal(t, 0.0, Period(traj, 10, 0))
}

func TestPhasePortrait(t *testing.T) {
	traj := freeOscillation(t, dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}, 100)

	portrait := NewPhasePortrait(traj)
	require.Len(t, portrait.Points, 101)
	assert.Equal(t, 1.0, portrait.Points[0].X)
	assert.Equal(t, 0.0, portrait.Points[0].Y)

	art := portrait.ASCII(40, 12)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, art, "•")

	var empty *PhasePortrait
	assert.Equal(t, "", empty.ASCII(40, 12))
}

func TestSweepStiffness(t *testing.T) {
	base := dynamo.Params{Mass: 1, Damping: 1}

	pts, err := Sweep(context.Background(), base, dynamo.DefaultDt, "stiffness", 5, 20, 4,
		dynamo.Rest(), dynamo.Constant(10), 600)
	require.NoError(t, err)
	require.Len(t, pts, 4)

	assert.Equal(t, []float64{5, 10, 15, 20}, []float64{pts[0].Param, pts[1].Param, pts[2].Param, pts[3].Param})
	for _, pt := range pts {
		// static deflection is F/k once transients decay
		assert.InDelta(t, 10/pt.Param, pt.Final, 0.05)
		assert.GreaterOrEqual(t, pt.Peak, pt.Final)
		assert.True(t, pt.Stable)
	}
}

func TestSweepRejectsUnknownParameter(t *testing.T) {
	_, err := Sweep(context.Background(), dynamo.Params{Mass: 1}, dynamo.DefaultDt, "length", 0, 1, 2,
		dynamo.Rest(), dynamo.Constant(0), 10)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)

	_, err = Sweep(context.Background(), dynamo.Params{Mass: 1}, dynamo.DefaultDt, "mass", 0, 1, 2,
		dynamo.Rest(), dynamo.Constant(0), 10)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)
}

func TestWindowedSpectrumMatchesPeak(t *testing.T) {
	dt := 0.01
	data := make([]float64, 400)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * 12.5 * float64(i) * dt)
	}

	plain, err := PowerSpectrum(data, dt)
	require.NoError(t, err)
	hann, err := WindowedSpectrum(data, dt)
	require.NoError(t, err)

	require.Equal(t, len(plain.Freqs), len(hann.Freqs))
	assert.InDelta(t, 12.5, hann.Freqs[hann.Peak()], 1e-9)
	assert.InDelta(t, plain.Freqs[plain.Peak()], hann.Freqs[hann.Peak()], 1e-9)
}

func TestWelchPSD(t *testing.T) {
	p := dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}
	traj := freeOscillation(t, p, 600)

	s, err := WelchPSD(traj, DefaultSegment)
	require.NoError(t, err)
	assert.Len(t, s.Freqs, DefaultSegment/2+1)

	fn := math.Sqrt(p.Stiffness/p.Mass) / (2 * math.Pi)
	// resolution is 30/128, about 0.23 Hz
	assert.InDelta(t, fn, s.Freqs[s.Peak()], 0.25)

	_, err = WelchPSD(traj, 1000)
	assert.ErrorIs(t, err, ErrTooShort)
	_, err = WelchPSD(traj, 7)
	assert.ErrorIs(t, err, ErrTooShort)
}
