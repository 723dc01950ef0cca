package hmc

import (
	"context"
	"sync"
)

// Ensemble runs several independent chains of the same sampler setup.
// Chains share nothing mutable: each goroutine gets a fresh Sampler and a
// seed offset from seedStart, so runs are reproducible and race-free.
type Ensemble struct {
	target    Target
	numChains int
	seedStart int64
	metrics   []func() Metric
}

func NewEnsemble(t Target, numChains int, seedStart int64) *Ensemble {
	return &Ensemble{target: t, numChains: numChains, seedStart: seedStart}
}

// AddMetric registers a metric constructor; each chain gets its own
// instance so counters never cross chains.
func (e *Ensemble) AddMetric(newMetric func() Metric) {
	e.metrics = append(e.metrics, newMetric)
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numChains)
	errs := make([]error, e.numChains)

	var wg sync.WaitGroup
	for i := 0; i < e.numChains; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s := NewSampler(e.target)
			for _, newMetric := range e.metrics {
				s.AddMetric(newMetric())
			}

			results[idx], errs[idx] = s.Run(ctx, x0, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
