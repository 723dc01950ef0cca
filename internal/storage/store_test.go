package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

func sampleResult() *hmc.Result {
	return &hmc.Result{
		Samples:     []hmc.State{{0.1, 0.2}, {0.3, 0.4}, {0.3, 0.4}},
		Accepted:    []bool{true, true, false},
		AcceptCount: 2,
		Divergences: 1,
		Metrics:     map[string]float64{"acceptance_rate": 2.0 / 3.0},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := hmc.Config{StepSize: 0.06, Steps: 39, Samples: 3, Seed: 42}
	runID, err := store.Save("banana", cfg, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "banana_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Target != "banana" || meta.Seed != 42 || meta.Steps != 39 {
		t.Errorf("metadata did not roundtrip: %+v", meta)
	}
	if math.Abs(meta.AcceptRate-2.0/3.0) > 1e-9 {
		t.Errorf("accept rate did not roundtrip: %f", meta.AcceptRate)
	}
	if meta.Divergences != 1 {
		t.Errorf("divergences did not roundtrip: %d", meta.Divergences)
	}
}

func TestStoreLoadSamples(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := hmc.Config{StepSize: 0.06, Steps: 39, Samples: 3, Seed: 1}
	runID, err := store.Save("banana", cfg, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	samples, accepted, err := store.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}

	if len(samples) != 3 || len(accepted) != 3 {
		t.Fatalf("expected 3 rows, got %d samples / %d flags", len(samples), len(accepted))
	}
	if math.Abs(samples[0][0]-0.1) > 1e-6 || math.Abs(samples[1][1]-0.4) > 1e-6 {
		t.Errorf("sample values did not roundtrip: %v", samples)
	}
	if !accepted[0] || !accepted[1] || accepted[2] {
		t.Errorf("accept flags did not roundtrip: %v", accepted)
	}
}

func TestStoreSavesTrajectories(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	result := sampleResult()
	result.Trajectories = []hmc.Trajectory{
		{
			{Position: hmc.State{0, 0}, Momentum: hmc.State{1, 1}},
			{Position: hmc.State{0.1, 0.1}, Momentum: hmc.State{0.9, 0.9}},
		},
	}

	cfg := hmc.Config{StepSize: 0.06, Steps: 1, Samples: 3, Seed: 1, RecordTrajectories: true}
	runID, err := store.Save("banana", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, runID, "trajectories.csv"))
	if err != nil {
		t.Fatalf("trajectories.csv missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 { // header + 2 phase states
		t.Errorf("expected 3 csv lines, got %d", len(lines))
	}
}

func TestStoreList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := hmc.Config{StepSize: 0.06, Steps: 39, Samples: 3, Seed: 1}
	if _, err := store.Save("banana", cfg, sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Target != "banana" {
		t.Errorf("unexpected listed target %q", runs[0].Target)
	}
}

func TestStoreListEmptyDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer

	cfg := hmc.Config{StepSize: 0.06, Steps: 39, Seed: 9}
	if err := ExportJSON(&buf, "banana", cfg, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}

	if data.Target != "banana" || data.Seed != 9 {
		t.Errorf("export header mismatch: %+v", data)
	}
	if len(data.Samples) != 3 || data.Samples[2][0] != 0.3 {
		t.Errorf("export samples mismatch: %v", data.Samples)
	}
	if math.Abs(data.AcceptRate-2.0/3.0) > 1e-9 {
		t.Errorf("export accept rate mismatch: %f", data.AcceptRate)
	}
}
