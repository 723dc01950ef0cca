package optim

import (
	"context"
	"math"

	"github.com/chemketoo/gentleHMC/internal/experiment"
)

// StepSizeSearch scans a grid of (step size, step count) pairs and keeps
// the pair whose acceptance rate lands closest to the requested target.
// Not NUTS: just a brute-force pass over caller-supplied candidates.
type StepSizeSearch struct {
	stepSizes  []float64
	stepCounts []int
}

func NewStepSizeSearch(stepSizes []float64, stepCounts []int) *StepSizeSearch {
	return &StepSizeSearch{stepSizes: stepSizes, stepCounts: stepCounts}
}

type SearchResult struct {
	StepSize   float64
	Steps      int
	AcceptRate float64
}

func (g *StepSizeSearch) Search(
	ctx context.Context,
	buildExperiment func(stepSize float64, steps int) (*experiment.Experiment, error),
	targetRate float64,
) (SearchResult, error) {

	best := SearchResult{}
	bestDist := math.Inf(1)

	for _, eps := range g.stepSizes {
		for _, steps := range g.stepCounts {
			exp, err := buildExperiment(eps, steps)
			if err != nil {
				continue
			}

			result, err := exp.Run(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return best, ctx.Err()
				}
				continue
			}

			rate := result.AcceptanceRate()
			dist := math.Abs(rate - targetRate)
			if dist < bestDist {
				bestDist = dist
				best = SearchResult{StepSize: eps, Steps: steps, AcceptRate: rate}
			}
		}
	}

	return best, nil
}
