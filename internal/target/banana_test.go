package target_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chemketoo/gentleHMC/internal/hmc"
	"github.com/chemketoo/gentleHMC/internal/target"
)

// gradFD approximates the gradient of t.LogDensity at x with central
// differences, the oracle the analytic gradients are checked against.
func gradFD(t hmc.Target, x hmc.State) hmc.State {
	const h = 1e-6
	out := make(hmc.State, len(x))
	for i := range x {
		hi := x.Clone()
		lo := x.Clone()
		hi[i] += h
		lo[i] -= h
		out[i] = (t.LogDensity(hi) - t.LogDensity(lo)) / (2 * h)
	}
	return out
}

var _ = Describe("Banana", func() {
	Describe("NewBanana", func() {
		It("rejects a zero scale", func() {
			_, err := target.NewBanana(0, 0.5, 0.95)
			Expect(err).To(MatchError(target.ErrInvalidParameter))
		})

		It("rejects correlations on or outside the unit interval", func() {
			for _, r := range []float64{-1, 1, 1.5, -2} {
				_, err := target.NewBanana(1.25, 0.5, r)
				Expect(err).To(MatchError(target.ErrInvalidParameter), "r=%g", r)
			}
		})

		It("accepts the classic shape", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())
			Expect(bn.Dim()).To(Equal(2))

			a, b, r := bn.Params()
			Expect(a).To(Equal(1.25))
			Expect(b).To(Equal(0.5))
			Expect(r).To(Equal(0.95))
		})

		It("accepts a negative scale", func() {
			_, err := target.NewBanana(-1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("LogDensity", func() {
		It("peaks on the density ridge, not off it", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			// (0, b*(0 + a^2)) pulls back to the normal's mode (0, 0).
			ridge := bn.LogDensity(hmc.State{0, 0.5 * 1.25 * 1.25})
			off := bn.LogDensity(hmc.State{3, -4})
			Expect(ridge).To(BeNumerically(">", off))
		})

		It("is finite everywhere reasonable", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 100; i++ {
				x := hmc.State{rng.NormFloat64() * 5, rng.NormFloat64() * 5}
				Expect(math.IsNaN(bn.LogDensity(x))).To(BeFalse())
			}
		})
	})

	Describe("Gradient", func() {
		It("matches central finite differences", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(2))
			for i := 0; i < 50; i++ {
				x := hmc.State{rng.NormFloat64() * 3, rng.NormFloat64() * 3}
				got := bn.Gradient(x)
				want := gradFD(bn, x)
				Expect(got[0]).To(BeNumerically("~", want[0], 1e-4))
				Expect(got[1]).To(BeNumerically("~", want[1], 1e-4))
			}
		})

		It("vanishes at the mode", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			g := bn.Gradient(hmc.State{0, 0.5 * 1.25 * 1.25})
			Expect(g[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(g[1]).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("Sample", func() {
		It("recovers the analytic moments", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(3))
			const n = 100000
			draws := bn.Sample(rng, n)
			Expect(draws).To(HaveLen(n))

			var mx, my float64
			for _, d := range draws {
				mx += d[0]
				my += d[1]
			}
			mx /= n
			my /= n

			var vx, vy, cxy float64
			for _, d := range draws {
				dx := d[0] - mx
				dy := d[1] - my
				vx += dx * dx
				vy += dy * dy
				cxy += dx * dy
			}
			vx /= n - 1
			vy /= n - 1
			cxy /= n - 1

			mean := bn.Mean()
			cov := bn.Covariance()

			Expect(mx).To(BeNumerically("~", mean[0], 0.03))
			Expect(my).To(BeNumerically("~", mean[1], 0.03))
			Expect(vx).To(BeNumerically("~", cov[0][0], 0.05))
			Expect(vy).To(BeNumerically("~", cov[1][1], 0.05))
			Expect(cxy).To(BeNumerically("~", cov[0][1], 0.05))
		})

		It("is deterministic for a fixed generator seed", func() {
			bn, err := target.NewBanana(1.25, 0.5, 0.95)
			Expect(err).NotTo(HaveOccurred())

			a := bn.Sample(rand.New(rand.NewSource(7)), 10)
			b := bn.Sample(rand.New(rand.NewSource(7)), 10)
			Expect(a).To(Equal(b))
		})
	})
})

var _ = Describe("Gaussian", func() {
	It("rejects correlations outside (-1, 1)", func() {
		_, err := target.NewGaussian(1)
		Expect(err).To(MatchError(target.ErrInvalidParameter))
	})

	It("has a gradient matching finite differences", func() {
		g, err := target.NewGaussian(0.6)
		Expect(err).NotTo(HaveOccurred())

		rng := rand.New(rand.NewSource(4))
		for i := 0; i < 50; i++ {
			x := hmc.State{rng.NormFloat64() * 3, rng.NormFloat64() * 3}
			got := g.Gradient(x)
			want := gradFD(g, x)
			Expect(got[0]).To(BeNumerically("~", want[0], 1e-4))
			Expect(got[1]).To(BeNumerically("~", want[1], 1e-4))
		}
	})

	It("samples with the requested correlation", func() {
		g, err := target.NewGaussian(0.95)
		Expect(err).NotTo(HaveOccurred())

		rng := rand.New(rand.NewSource(5))
		const n = 100000
		draws := g.Sample(rng, n)

		var cxy float64
		for _, d := range draws {
			cxy += d[0] * d[1]
		}
		cxy /= n

		Expect(cxy).To(BeNumerically("~", 0.95, 0.02))
	})
})
