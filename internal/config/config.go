package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepSize = 0.06
	DefaultSteps    = 39
	DefaultSamples  = 1000
	DefaultA        = 1.25
	DefaultB        = 0.5
	DefaultR        = 0.95
)

type Config struct {
	Target   string       `yaml:"target"`
	StepSize float64      `yaml:"step_size"`
	Steps    int          `yaml:"steps"`
	Samples  int          `yaml:"samples"`
	Seed     int64        `yaml:"seed"`
	Chains   int          `yaml:"chains"`
	Shape    ShapeConfig  `yaml:"shape"`
	Init     InitConfig   `yaml:"init"`
	Record   RecordConfig `yaml:"record"`
}

// ShapeConfig holds target density parameters. A and B are ignored by the
// plain gaussian target.
type ShapeConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	R float64 `yaml:"r"`
}

type InitConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RecordConfig struct {
	Trajectories bool `yaml:"trajectories"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:   "banana",
		StepSize: DefaultStepSize,
		Steps:    DefaultSteps,
		Samples:  DefaultSamples,
		Seed:     1,
		Chains:   1,
		Shape: ShapeConfig{
			A: DefaultA,
			B: DefaultB,
			R: DefaultR,
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
		return nil, err
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

func (c *Config) GetInitState() []float64 {
	return []float64{c.Init.X, c.Init.Y}
}

func (c *Config) GetShapeParams() map[string]float64 {
	return map[string]float64{
		"a": c.Shape.A,
		"b": c.Shape.B,
		"r": c.Shape.R,
	}
}
