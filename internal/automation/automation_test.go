package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: damping study
description: compare critical damping with a soft spring
steps:
  - preset: critical
    steps: 120
  - name: soft
    params:
      mass: 2
      stiffness: 5
      damping: 0.5
    steps: 90
    input:
      type: constant
      force: 5
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "damping study", s.Name)
	require.Len(t, s.Steps, 2)

	outcomes, err := RunScenario(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "critical", outcomes[0].Name)
	assert.Equal(t, 121, outcomes[0].Result.Trajectory.Len())

	assert.Equal(t, "soft", outcomes[1].Name)
	assert.Equal(t, 91, outcomes[1].Result.Trajectory.Len())
	assert.Equal(t, 2.0, outcomes[1].Experiment.Config().Params.Mass)
	assert.Equal(t, []float64{5}, outcomes[1].Result.Trajectory.Forces()[:1])
}

func ptr[T any](v T) *T { return &v }

func TestScenarioZeroSteps(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, "steps:\n  - preset: free\n    steps: 0\n  - preset: free\n"))
	require.NoError(t, err)
	require.NotNil(t, s.Steps[0].Steps)
	assert.Nil(t, s.Steps[1].Steps)

	outcomes, err := RunScenario(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, 1, outcomes[0].Result.Trajectory.Len())
	assert.Equal(t, config.GetPreset("free").Steps+1, outcomes[1].Result.Trajectory.Len())
}

func TestRunScenarioStopsAtBadStep(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{
		{Preset: "free", Steps: ptr(10)},
		{Preset: "missing"},
		{Preset: "free"},
	}}

	outcomes, err := RunScenario(context.Background(), s)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorContains(t, err, "step 2")
	assert.Len(t, outcomes, 1)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = LoadScenario(writeScenario(t, "steps: [unterminated\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStepLabel(t *testing.T) {
	assert.Equal(t, "a", ScenarioStep{Name: "a", Preset: "free"}.Label(0))
	assert.Equal(t, "free", ScenarioStep{Preset: "free"}.Label(0))
	assert.Equal(t, "step3", ScenarioStep{}.Label(2))
}

func monteCarloBase() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Steps = 100
	return cfg
}

func TestMonteCarloDeterministic(t *testing.T) {
	cfg := MonteCarloConfig{Base: monteCarloBase(), Sigma: 0.1, Trials: 16, Seed: 7, Workers: 4}

	a, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, a, 16)

	cfg.Workers = 1
	b, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for i, r := range a {
		assert.Equal(t, i, r.Trial)
		assert.True(t, r.Bounded)
	}
	assert.NotEqual(t, a[0].InitState, a[1].InitState)
}

func TestMonteCarloSummary(t *testing.T) {
	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{
		Base: monteCarloBase(), Sigma: 0.05, Trials: 10, Seed: 1,
	})
	require.NoError(t, err)

	s := Summarize(results)
	assert.Equal(t, 10, s.Trials)
	assert.Equal(t, 1.0, s.BoundedRatio)
	assert.Greater(t, s.PeakMax, 0.0)
	assert.GreaterOrEqual(t, s.PeakMax, s.PeakMean)
	assert.GreaterOrEqual(t, s.FinalStd, 0.0)

	assert.Equal(t, MonteCarloSummary{}, Summarize(nil))
}

func TestMonteCarloInvalid(t *testing.T) {
	ctx := context.Background()

	_, err := RunMonteCarlo(ctx, MonteCarloConfig{Base: monteCarloBase(), Sigma: 0, Trials: 3})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = RunMonteCarlo(ctx, MonteCarloConfig{Base: monteCarloBase(), Sigma: 0.1, Trials: 0})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = RunMonteCarlo(ctx, MonteCarloConfig{Sigma: 0.1, Trials: 3})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
