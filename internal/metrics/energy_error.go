package metrics

import (
	"math"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

// EnergyError averages |H1 - H0| over finite-energy iterations. For an
// exact integrator it would be zero; its size tracks the leapfrog
// discretization error and predicts the acceptance rate.
type EnergyError struct {
	name    string
	sum     float64
	samples int
}

func NewEnergyError() *EnergyError {
	return &EnergyError{name: "energy_error"}
}

func (e *EnergyError) Name() string { return e.name }

func (e *EnergyError) Observe(it hmc.IterationStats) {
	if it.Divergent {
		return
	}
	e.sum += math.Abs(it.EnergyError)
	e.samples++
}

func (e *EnergyError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *EnergyError) Reset() {
	e.sum = 0
	e.samples = 0
}
