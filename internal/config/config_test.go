package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Field.Resolution <= 0 {
		t.Error("resolution should be positive")
	}
	if cfg.Trajectory.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.Resolution = 0
	cfg.Field.Size[1] = -1
	cfg.Trajectory.Dt = 0
	cfg.Trajectory.DerivativeWeights = []float64{1, -1}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Errorf("expected 4 errors, got %d: %v", n, err)
	}
	if !strings.Contains(err.Error(), "field.resolution") {
		t.Errorf("missing resolution error: %v", err)
	}
}

func TestValidateAllowsNonPositiveMaxDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.MaxDistance = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero max distance should be allowed: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Obstacles = []Vec3{{1, 2, 3}}
	cfg.Trajectory.DerivativeWeights = []float64{0.5, 1, 0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Obstacles) != 1 || loaded.Obstacles[0] != (Vec3{1, 2, 3}) {
		t.Errorf("obstacles not round-tripped: %v", loaded.Obstacles)
	}
	if loaded.Trajectory.DerivativeWeights[0] != 0.5 {
		t.Errorf("weights not round-tripped: %v", loaded.Trajectory.DerivativeWeights)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("field:\n  resolution: 0.5\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Field.Resolution != 0.5 {
		t.Errorf("expected resolution 0.5, got %f", loaded.Field.Resolution)
	}
	if loaded.Path.ObstacleEpsilon != DefaultObstacleEpsilon {
		t.Errorf("expected default epsilon, got %f", loaded.Path.ObstacleEpsilon)
	}
	if loaded.Field.Size != (Vec3{DefaultSize, DefaultSize, DefaultSize}) {
		t.Errorf("expected default size, got %v", loaded.Field.Size)
	}
	if loaded.Trajectory.FreePoints != DefaultFreePoints {
		t.Errorf("expected default free points, got %d", loaded.Trajectory.FreePoints)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cube")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Obstacles) != 1 || cfg.Obstacles[0] != (Vec3{2, 2, 2}) {
		t.Errorf("unexpected cube obstacles: %v", cfg.Obstacles)
	}

	// presets hand out copies
	cfg.Obstacles[0] = Vec3{0, 0, 0}
	if GetPreset("cube").Obstacles[0] != (Vec3{2, 2, 2}) {
		t.Error("preset mutated through returned config")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if len(cfg.Obstacles) == 0 {
			t.Errorf("preset %s has no obstacles", name)
		}
	}
}
