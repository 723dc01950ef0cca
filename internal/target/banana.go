package target

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

// ErrInvalidParameter indicates a density shape parameter outside its valid
// range. It is only ever returned at construction time.
var ErrInvalidParameter = errors.New("target: invalid density parameter")

// ExactSampler is implemented by targets that can draw i.i.d. samples
// directly, without MCMC. The generator is supplied by the caller so that
// concurrent users never share random state.
type ExactSampler interface {
	Sample(rng *rand.Rand, n int) []hmc.State
}

const log2Pi = 1.8378770664093453 // log(2*pi)

// Banana is a curved, non-convex bivariate density: a correlated standard
// bivariate normal (u, v) pushed through
//
//	x = u*a
//	y = v/a + b*(u^2 + a^2)
//
// The map is invertible with unit Jacobian determinant, so the log-density
// at (x, y) is just the normal log pdf at the pulled-back point.
type Banana struct {
	a, b, r float64
	prec    float64 // 1/(1-r^2)
	logNorm float64
}

// NewBanana validates the shape parameters: a must be non-zero (the inverse
// transform divides by it) and r must lie strictly inside (-1, 1) for the
// correlation matrix to be positive-definite.
func NewBanana(a, b, r float64) (*Banana, error) {
	if a == 0 {
		return nil, fmt.Errorf("%w: scale a must be non-zero", ErrInvalidParameter)
	}
	if r <= -1 || r >= 1 {
		return nil, fmt.Errorf("%w: correlation r=%g outside (-1, 1)", ErrInvalidParameter, r)
	}
	return &Banana{
		a:       a,
		b:       b,
		r:       r,
		prec:    1 / (1 - r*r),
		logNorm: -log2Pi - 0.5*math.Log(1-r*r),
	}, nil
}

func (bn *Banana) Dim() int { return 2 }

// Params returns the shape parameters the density was built with.
func (bn *Banana) Params() (a, b, r float64) { return bn.a, bn.b, bn.r }

func (bn *Banana) LogDensity(x hmc.State) float64 {
	u := x[0] / bn.a
	v := bn.a * (x[1] - bn.b*(u*u+bn.a*bn.a))
	return bn.logNorm - 0.5*bn.prec*(u*u-2*bn.r*u*v+v*v)
}

// Gradient is the analytic chain-rule gradient of LogDensity through the
// inverse transform. No numerical differentiation.
func (bn *Banana) Gradient(x hmc.State) hmc.State {
	u := x[0] / bn.a
	v := bn.a * (x[1] - bn.b*(u*u+bn.a*bn.a))

	du := -bn.prec * (u - bn.r*v)
	dv := -bn.prec * (v - bn.r*u)

	// du/dx = 1/a, dv/dx = -2*b*x/a, dv/dy = a
	return hmc.State{
		du/bn.a - dv*2*bn.b*x[0]/bn.a,
		dv * bn.a,
	}
}

// Sample draws n independent pairs exactly from the target: two standard
// normals through the Cholesky factor of the correlation matrix, then the
// forward transform.
func (bn *Banana) Sample(rng *rand.Rand, n int) []hmc.State {
	chol := math.Sqrt(1 - bn.r*bn.r)
	out := make([]hmc.State, n)
	for i := range out {
		z1 := rng.NormFloat64()
		z2 := rng.NormFloat64()
		u := z1
		v := bn.r*z1 + chol*z2
		out[i] = hmc.State{
			u * bn.a,
			v/bn.a + bn.b*(u*u+bn.a*bn.a),
		}
	}
	return out
}

// Mean is the exact mean of the transformed distribution.
func (bn *Banana) Mean() hmc.State {
	return hmc.State{0, bn.b * (1 + bn.a*bn.a)}
}

// Covariance is the exact covariance matrix, row-major. Derived from
// E[u^3] = 0 and Var(u^2) = 2 for a standard normal u.
func (bn *Banana) Covariance() [2][2]float64 {
	return [2][2]float64{
		{bn.a * bn.a, bn.r},
		{bn.r, 1/(bn.a*bn.a) + 2*bn.b*bn.b},
	}
}
