package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FrameRate != 60 {
		t.Errorf("expected 60 fps, got %d", cfg.FrameRate)
	}
	if cfg.SubSteps != 8 {
		t.Errorf("expected 8 sub-steps, got %d", cfg.SubSteps)
	}
	if cfg.Constraint.Center.X != 500 || cfg.Constraint.Center.Y != 500 || cfg.Constraint.Radius != 450 {
		t.Errorf("unexpected constraint %+v", cfg.Constraint)
	}
	if cfg.Gravity.Y != 1000 {
		t.Errorf("expected gravity 1000, got %f", cfg.Gravity.Y)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero rate", func(c *Config) { c.FrameRate = 0 }},
		{"zero sub-steps", func(c *Config) { c.SubSteps = 0 }},
		{"zero constraint", func(c *Config) { c.Constraint.Radius = 0 }},
		{"zero min radius", func(c *Config) { c.Spawn.MinRadius = 0 }},
		{"inverted radii", func(c *Config) { c.Spawn.MaxRadius = 0.5 }},
		{"radius exceeds constraint", func(c *Config) { c.Spawn.MaxRadius = 500 }},
		{"negative delay", func(c *Config) { c.Spawn.Delay = -1 }},
		{"negative max objects", func(c *Config) { c.Spawn.MaxObjects = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"sandbox.yaml", "sandbox.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.SubSteps = 3
			cfg.Seed = 1234
			cfg.Gravity = Point{X: 10, Y: 250}
			cfg.Spawn.MaxObjects = 42

			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
			}
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(yamlPath, []byte("sub_steps: 2\nspawn:\n  max_objects: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "partial.toml")
	if err := os.WriteFile(tomlPath, []byte("sub_steps = 2\n[spawn]\nmax_objects = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, tomlPath} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load failed: %v", path, err)
		}
		if cfg.SubSteps != 2 || cfg.Spawn.MaxObjects != 7 {
			t.Errorf("%s: overrides not applied: %+v", path, cfg)
		}
		if cfg.Spawn.Speed != DefaultSpawnSpeed || cfg.FrameRate != DefaultFrameRate {
			t.Errorf("%s: defaults lost: %+v", path, cfg)
		}
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("seed: 3\nspawn:\n  speed: 250\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadInto(path, GetPreset("dense"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 3 || cfg.Spawn.Speed != 250 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Spawn.MaxObjects != 2000 || cfg.Spawn.MinRadius != 2 || cfg.Spawn.Delay != 0.01 {
		t.Errorf("preset values lost: %+v", cfg.Spawn)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewSolverAppliesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubSteps = 4
	s := cfg.NewSolver()

	if s.GetSubStepsCount() != 4 {
		t.Errorf("expected 4 sub-steps, got %d", s.GetSubStepsCount())
	}
	center, radius := s.GetConstraint()
	if center.X != 500 || center.Y != 500 || radius != 450 {
		t.Errorf("unexpected constraint (%v, %f)", center, radius)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("configured solver invalid: %v", err)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	a := GetPreset("dense")
	a.SubSteps = 99
	if GetPreset("dense").SubSteps == 99 {
		t.Error("presets must return independent copies")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}
