package target

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

// Gaussian is a zero-mean bivariate normal with unit variances and
// correlation r. It is the un-transformed (u, v) law behind Banana and a
// convenient sanity target: any correct chain should recover its moments
// quickly.
type Gaussian struct {
	r       float64
	prec    float64
	logNorm float64
}

func NewGaussian(r float64) (*Gaussian, error) {
	if r <= -1 || r >= 1 {
		return nil, fmt.Errorf("%w: correlation r=%g outside (-1, 1)", ErrInvalidParameter, r)
	}
	return &Gaussian{
		r:       r,
		prec:    1 / (1 - r*r),
		logNorm: -log2Pi - 0.5*math.Log(1-r*r),
	}, nil
}

func (g *Gaussian) Dim() int { return 2 }

func (g *Gaussian) LogDensity(x hmc.State) float64 {
	return g.logNorm - 0.5*g.prec*(x[0]*x[0]-2*g.r*x[0]*x[1]+x[1]*x[1])
}

func (g *Gaussian) Gradient(x hmc.State) hmc.State {
	return hmc.State{
		-g.prec * (x[0] - g.r*x[1]),
		-g.prec * (x[1] - g.r*x[0]),
	}
}

func (g *Gaussian) Sample(rng *rand.Rand, n int) []hmc.State {
	chol := math.Sqrt(1 - g.r*g.r)
	out := make([]hmc.State, n)
	for i := range out {
		z1 := rng.NormFloat64()
		z2 := rng.NormFloat64()
		out[i] = hmc.State{z1, g.r*z1 + chol*z2}
	}
	return out
}
