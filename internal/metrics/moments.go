package metrics

import "github.com/chemketoo/gentleHMC/internal/hmc"

// Moments tracks the running mean of one chain coordinate using Welford's
// update, so long chains don't lose precision to naive summation.
type Moments struct {
	name    string
	coord   int
	samples int
	mean    float64
	m2      float64
}

func NewMoments(name string, coord int) *Moments {
	return &Moments{name: name, coord: coord}
}

func (m *Moments) Name() string { return m.name }

func (m *Moments) Observe(it hmc.IterationStats) {
	if m.coord >= len(it.Sample) {
		return
	}
	v := it.Sample[m.coord]
	m.samples++
	delta := v - m.mean
	m.mean += delta / float64(m.samples)
	m.m2 += delta * (v - m.mean)
}

// Value reports the running mean; Variance reports the unbiased sample
// variance.
func (m *Moments) Value() float64 { return m.mean }

func (m *Moments) Variance() float64 {
	if m.samples < 2 {
		return 0
	}
	return m.m2 / float64(m.samples-1)
}

func (m *Moments) Reset() {
	m.samples = 0
	m.mean = 0
	m.m2 = 0
}
