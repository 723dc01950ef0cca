package experiment

import (
	"fmt"

	"github.com/chemketoo/gentleHMC/internal/hmc"
	"github.com/chemketoo/gentleHMC/internal/metrics"
	"github.com/chemketoo/gentleHMC/internal/target"
)

type Registry struct {
	targets map[string]func(params map[string]float64) (hmc.Target, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		targets: make(map[string]func(map[string]float64) (hmc.Target, error)),
	}

	r.targets["banana"] = func(params map[string]float64) (hmc.Target, error) {
		return target.NewBanana(params["a"], params["b"], params["r"])
	}
	r.targets["gaussian"] = func(params map[string]float64) (hmc.Target, error) {
		return target.NewGaussian(params["r"])
	}

	return r
}

func (r *Registry) GetTarget(name string, params map[string]float64) (hmc.Target, error) {
	fn, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s", name)
	}
	return fn(params)
}

func (r *Registry) ListTargets() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	return names
}

func (r *Registry) DefaultMetrics() []hmc.Metric {
	return []hmc.Metric{
		metrics.NewAcceptance(),
		metrics.NewDivergence(),
		metrics.NewEnergyError(),
		metrics.NewMoments("mean_x", 0),
		metrics.NewMoments("mean_y", 1),
	}
}
