package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 20.0
	DefaultDamping   = 1.0
	DefaultSteps     = 499
	DefaultFPS       = dynamo.DefaultFPS
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultOutput    = "mass_spring_damper.gif"
)

// Input types understood by BuildInput.
const (
	InputNone      = "none"
	InputConstant  = "constant"
	InputSchedule  = "schedule"
	InputReference = "reference"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Params    dynamo.Params   `yaml:"params"`
	Dt        float64         `yaml:"dt"`
	Steps     int             `yaml:"steps"`
	InitState InitStateConfig `yaml:"init_state"`
	Input     InputConfig     `yaml:"input"`
	Render    RenderConfig    `yaml:"render"`
}

type InitStateConfig struct {
	Velocity     float64 `yaml:"velocity"`
	Displacement float64 `yaml:"displacement"`
}

// InputConfig selects the external force. Force is used by "constant";
// Segments and Otherwise by "schedule".
type InputConfig struct {
	Type      string          `yaml:"type"`
	Force     float64         `yaml:"force,omitempty"`
	Segments  []SegmentConfig `yaml:"segments,omitempty"`
	Otherwise float64         `yaml:"otherwise,omitempty"`
}

type SegmentConfig struct {
	Until int     `yaml:"until"`
	Force float64 `yaml:"force"`
}

type RenderConfig struct {
	// FPS of the animation. Zero plays it in real time at 1/dt.
	FPS    int    `yaml:"fps,omitempty"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Output string `yaml:"output"`
}

// DefaultConfig reproduces the reference run: m=1, k=20, c=1 at 30 Hz for
// 499 steps under the reference force schedule, starting at rest.
func DefaultConfig() *Config {
	return &Config{
		Params: dynamo.Params{
			Mass:      DefaultMass,
			Stiffness: DefaultStiffness,
			Damping:   DefaultDamping,
		},
		Dt:    dynamo.DefaultDt,
		Steps: DefaultSteps,
		Input: InputConfig{Type: InputReference},
		Render: RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Output: DefaultOutput,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Input.Segments = append([]SegmentConfig(nil), c.Input.Segments...)
	return &out
}

// Validate checks the structure of the configuration. Physical parameters
// are checked by dynamo.New when the model is built.
func (c *Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	switch c.Input.Type {
	case InputNone, InputConstant, InputReference:
	case InputSchedule:
		if len(c.Input.Segments) == 0 {
			return fmt.Errorf("%w: schedule input needs at least one segment", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown input type %q", ErrInvalidConfig, c.Input.Type)
	}
	if c.Render.FPS < 0 {
		return fmt.Errorf("%w: render fps must not be negative, got %d", ErrInvalidConfig, c.Render.FPS)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size must be positive, got %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	return nil
}

// FrameRate returns the animation frame rate: Render.FPS when set, otherwise
// the step rate 1/dt.
func (c *Config) FrameRate() int {
	if c.Render.FPS > 0 {
		return c.Render.FPS
	}
	return FrameRateFor(c.Dt)
}

// FrameRateFor returns the frame rate that plays a run with step dt in real
// time, never less than one frame per second.
func FrameRateFor(dt float64) int {
	return max(1, int(math.Round(1/dt)))
}

func (c *Config) BuildModel() (*dynamo.Model, error) {
	return dynamo.New(c.Params, c.Dt)
}

func (c *Config) BuildInput() (dynamo.Input, error) {
	switch c.Input.Type {
	case InputNone:
		return dynamo.Constant(0), nil
	case InputConstant:
		return dynamo.Constant(c.Input.Force), nil
	case InputReference:
		return dynamo.ReferenceSchedule(), nil
	case InputSchedule:
		segs := make([]dynamo.Segment, len(c.Input.Segments))
		for i, s := range c.Input.Segments {
			segs[i] = dynamo.Segment{Until: s.Until, Force: s.Force}
		}
		return dynamo.NewSchedule(c.Input.Otherwise, segs...)
	default:
		return nil, fmt.Errorf("%w: unknown input type %q", ErrInvalidConfig, c.Input.Type)
	}
}

func (c *Config) GetInitState() *mat.VecDense {
	return dynamo.NewState(c.InitState.Velocity, c.InitState.Displacement)
}
