package experiment

import (
	"context"
	"fmt"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

type Config struct {
	Target             string
	InitState          []float64
	StepSize           float64
	Steps              int
	Samples            int
	Seed               int64
	ForceReject        bool
	RecordTrajectories bool
	Shape              map[string]float64
}

type Experiment struct {
	cfg     Config
	sampler *hmc.Sampler
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(t hmc.Target, metrics []hmc.Metric) error {
	e.sampler = hmc.NewSampler(t)
	for _, m := range metrics {
		e.sampler.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*hmc.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make(hmc.State, len(e.cfg.InitState))
	copy(x0, e.cfg.InitState)

	hmcCfg := hmc.Config{
		StepSize:           e.cfg.StepSize,
		Steps:              e.cfg.Steps,
		Samples:            e.cfg.Samples,
		Seed:               e.cfg.Seed,
		ForceReject:        e.cfg.ForceReject,
		RecordTrajectories: e.cfg.RecordTrajectories,
	}

	return e.sampler.Run(ctx, x0, hmcCfg)
}

// GetSampler returns the underlying sampler for adding observers.
func (e *Experiment) GetSampler() *hmc.Sampler {
	return e.sampler
}
