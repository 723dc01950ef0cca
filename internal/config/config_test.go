package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Target != "banana" {
		t.Errorf("default target = %q", cfg.Target)
	}
	if cfg.StepSize != DefaultStepSize || cfg.Steps != DefaultSteps || cfg.Samples != DefaultSamples {
		t.Errorf("unexpected default tuning: %+v", cfg)
	}
	if cfg.Shape.A != DefaultA || cfg.Shape.B != DefaultB || cfg.Shape.R != DefaultR {
		t.Errorf("unexpected default shape: %+v", cfg.Shape)
	}
	if cfg.Chains != 1 {
		t.Errorf("default chains = %d", cfg.Chains)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.StepSize = 0.02
	cfg.Samples = 5000
	cfg.Shape.R = 0.5
	cfg.Init.X = 1.5
	cfg.Record.Trajectories = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.StepSize != 0.02 || loaded.Samples != 5000 {
		t.Errorf("tuning did not roundtrip: %+v", loaded)
	}
	if loaded.Shape.R != 0.5 {
		t.Errorf("shape did not roundtrip: %+v", loaded.Shape)
	}
	if loaded.Init.X != 1.5 {
		t.Errorf("init did not roundtrip: %+v", loaded.Init)
	}
	if !loaded.Record.Trajectories {
		t.Error("record flag did not roundtrip")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("samples: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Samples != 42 {
		t.Errorf("explicit field lost: %d", cfg.Samples)
	}
	if cfg.StepSize != DefaultStepSize {
		t.Errorf("omitted field should default: %f", cfg.StepSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init.X = 2
	cfg.Init.Y = -3

	init := cfg.GetInitState()
	if len(init) != 2 || init[0] != 2 || init[1] != -3 {
		t.Errorf("unexpected init state: %v", init)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("banana", "classic")
	if p == nil {
		t.Fatal("classic banana preset missing")
	}
	if p.StepSize != 0.06 || p.Steps != 39 {
		t.Errorf("unexpected classic tuning: %+v", p)
	}

	if GetPreset("banana", "nope") != nil {
		t.Error("unknown preset should be nil")
	}
	if GetPreset("nope", "classic") != nil {
		t.Error("unknown target should be nil")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("banana")
	if len(names) != 3 {
		t.Errorf("expected 3 banana presets, got %v", names)
	}
	if ListPresets("nope") != nil {
		t.Error("unknown target should list nil")
	}
}
