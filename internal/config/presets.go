package config

import (
	"math"
	"sort"

	"github.com/san-kum/msdsim/internal/dynamo"
)

func preset(p dynamo.Params, steps int, init InitStateConfig, in InputConfig) *Config {
	cfg := DefaultConfig()
	cfg.Params = p
	cfg.Steps = steps
	cfg.InitState = init
	cfg.Input = in
	return cfg
}

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"free": preset(
		dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}, 300,
		InitStateConfig{Displacement: 1},
		InputConfig{Type: InputNone},
	),
	"step": preset(
		dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}, 300,
		InitStateConfig{},
		InputConfig{Type: InputConstant, Force: 10},
	),
	"critical": preset(
		dynamo.Params{Mass: 1, Stiffness: 20, Damping: 2 * math.Sqrt(20)}, 300,
		InitStateConfig{},
		InputConfig{Type: InputConstant, Force: 10},
	),
	"heavy": preset(
		dynamo.Params{Mass: 5, Stiffness: 20, Damping: 2}, 600,
		InitStateConfig{},
		InputConfig{Type: InputSchedule, Segments: []SegmentConfig{{Until: 150, Force: 20}}, Otherwise: 0},
	),
	// forward Euler gains energy every step without damping
	"undamped": preset(
		dynamo.Params{Mass: 1, Stiffness: 20, Damping: 0}, 300,
		InitStateConfig{Displacement: 1},
		InputConfig{Type: InputNone},
	),
	// dt*dt*k/m > 1: diverges
	"stiff": preset(
		dynamo.Params{Mass: 1, Stiffness: 1000, Damping: 1}, 120,
		InitStateConfig{Displacement: 0.1},
		InputConfig{Type: InputNone},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
