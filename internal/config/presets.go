package config

var Presets = map[string]map[string]*Config{
	"banana": {
		"classic": {
			Target: "banana", StepSize: 0.06, Steps: 39, Samples: 1000, Seed: 1,
			Shape: ShapeConfig{A: 1.25, B: 0.5, R: 0.95},
		},
		"gentle": {
			Target: "banana", StepSize: 0.02, Steps: 60, Samples: 2000, Seed: 1,
			Shape: ShapeConfig{A: 1.1, B: 0.25, R: 0.8},
		},
		"divergent": {
			// Step size deliberately far too large: every proposal blows
			// up to non-finite energy and is rejected.
			Target: "banana", StepSize: 50.0, Steps: 10, Samples: 100, Seed: 1,
			Shape: ShapeConfig{A: 1.25, B: 0.5, R: 0.95},
		},
	},
	"gaussian": {
		"round": {
			Target: "gaussian", StepSize: 0.2, Steps: 20, Samples: 1000, Seed: 1,
			Shape: ShapeConfig{R: 0.0},
		},
		"narrow": {
			Target: "gaussian", StepSize: 0.1, Steps: 30, Samples: 2000, Seed: 1,
			Shape: ShapeConfig{R: 0.95},
		},
	},
}

func GetPreset(target, name string) *Config {
	byTarget, ok := Presets[target]
	if !ok {
		return nil
	}
	return byTarget[name]
}

func ListPresets(target string) []string {
	byTarget, ok := Presets[target]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byTarget))
	for name := range byTarget {
		names = append(names, name)
	}
	return names
}
