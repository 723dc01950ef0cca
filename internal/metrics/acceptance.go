package metrics

import "github.com/chemketoo/gentleHMC/internal/hmc"

type Acceptance struct {
	name     string
	accepted int
	samples  int
}

func NewAcceptance() *Acceptance {
	return &Acceptance{name: "acceptance_rate"}
}

func (a *Acceptance) Name() string { return a.name }

func (a *Acceptance) Observe(it hmc.IterationStats) {
	a.samples++
	if it.Accepted {
		a.accepted++
	}
}

func (a *Acceptance) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.samples)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.samples = 0
}

// Divergence counts proposals whose endpoint energy was non-finite. A
// non-zero value at a given step size means the integrator is overstepping
// the density's curvature.
type Divergence struct {
	name  string
	count int
}

func NewDivergence() *Divergence {
	return &Divergence{name: "divergences"}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(it hmc.IterationStats) {
	if it.Divergent {
		d.count++
	}
}

func (d *Divergence) Value() float64 { return float64(d.count) }

func (d *Divergence) Reset() { d.count = 0 }
