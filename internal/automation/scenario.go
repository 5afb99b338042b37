package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the default config) and overrides
// whatever fields are present.
type ScenarioStep struct {
	Name      string                  `yaml:"name"`
	Preset    string                  `yaml:"preset"`
	Params    *dynamo.Params          `yaml:"params"`
	Dt        float64                 `yaml:"dt"`
	Steps     *int                    `yaml:"steps"`
	InitState *config.InitStateConfig `yaml:"init_state"`
	Input     *config.InputConfig     `yaml:"input"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrInvalidConfig, path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", config.ErrInvalidConfig, path)
	}

	return &scenario, nil
}

// Config resolves the step to a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, s.Preset)
		}
	}

	if s.Params != nil {
		cfg.Params = *s.Params
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != nil {
		cfg.Steps = *s.Steps
	}
	if s.InitState != nil {
		cfg.InitState = *s.InitState
	}
	if s.Input != nil {
		cfg.Input = *s.Input
	}

	return cfg, cfg.Validate()
}

// Label names the step for logs and the run store.
func (s ScenarioStep) Label(i int) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Preset != "":
		return s.Preset
	default:
		return fmt.Sprintf("step%d", i+1)
	}
}

// Outcome is one finished scenario step.
type Outcome struct {
	Name       string
	Experiment *experiment.Experiment
	Result     *experiment.Result
}

// RunScenario runs every step in order. On failure it returns the outcomes
// of the steps that completed along with the error.
func RunScenario(ctx context.Context, scenario *Scenario, opts ...experiment.Option) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Label(i)

		cfg, err := step.Config()
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		exp, err := experiment.New(name, cfg, opts...)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s) setup: %w", i+1, name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		outcomes = append(outcomes, Outcome{Name: name, Experiment: exp, Result: result})
	}

	return outcomes, nil
}
