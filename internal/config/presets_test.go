package config

import (
	"context"
	"sort"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
)

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("free")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Displacement != 1.0 {
		t.Errorf("expected displacement 1.0, got %f", cfg.InitState.Displacement)
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("heavy")
	cfg.Steps = 1
	cfg.Input.Segments[0].Force = -1

	again := GetPreset("heavy")
	if again.Steps == 1 || again.Input.Segments[0].Force == -1 {
		t.Error("modifying a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("presets not sorted: %v", names)
	}
}

func TestPresetsRun(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}
			m, err := cfg.BuildModel()
			if err != nil {
				t.Fatal(err)
			}
			in, err := cfg.BuildInput()
			if err != nil {
				t.Fatal(err)
			}
			traj, err := dynamo.Simulate(context.Background(), m, cfg.GetInitState(), in, cfg.Steps)
			if err != nil {
				t.Fatal(err)
			}
			if traj.Len() != cfg.Steps+1 {
				t.Errorf("expected %d states, got %d", cfg.Steps+1, traj.Len())
			}
		})
	}
}

func TestUnstablePresetsAreFlagged(t *testing.T) {
	for name, want := range map[string]bool{"reference": true, "critical": true, "undamped": false, "stiff": false} {
		m, err := GetPreset(name).BuildModel()
		if err != nil {
			t.Fatal(err)
		}
		r, err := m.Stability()
		if err != nil {
			t.Fatal(err)
		}
		if r.Stable != want {
			t.Errorf("%s: expected stable=%v, got %v", name, want, r)
		}
	}
}
