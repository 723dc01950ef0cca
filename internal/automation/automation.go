package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chemketoo/gentleHMC/internal/experiment"
	"github.com/chemketoo/gentleHMC/internal/hmc"
)

// Scenario defines a scripted sequence of chain runs, e.g. the same target
// at several step sizes.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single chain run in a scenario.
type ScenarioStep struct {
	Target   string             `yaml:"target"`
	StepSize float64            `yaml:"step_size"`
	Steps    int                `yaml:"steps"`
	Samples  int                `yaml:"samples"`
	Seed     int64              `yaml:"seed"`
	Init     []float64          `yaml:"init"`
	Shape    map[string]float64 `yaml:"shape"`
	Label    string             `yaml:"label"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepResult pairs a scenario step with its finished chain.
type StepResult struct {
	Step   ScenarioStep
	Result *hmc.Result
}

// RunScenario executes all steps in order. A failing step aborts the
// scenario; the caller decides what to do with the partial results.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		tgt, err := registry.GetTarget(step.Target, step.Shape)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i, err)
		}

		init := step.Init
		if init == nil {
			init = make([]float64, tgt.Dim())
		}

		cfg := experiment.Config{
			Target:    step.Target,
			InitState: init,
			StepSize:  step.StepSize,
			Steps:     step.Steps,
			Samples:   step.Samples,
			Seed:      step.Seed,
			Shape:     step.Shape,
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(tgt, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d: %w", i, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i, err)
		}

		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}
