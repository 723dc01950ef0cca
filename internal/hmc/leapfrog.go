package hmc

// Leapfrog integrates Hamiltonian dynamics with the symmetric
// momentum-half / position-full / momentum-half update and a unit mass
// matrix. The scheme is symplectic and time-reversible, which is what lets
// the Metropolis correction use only the endpoint energies. Do not replace
// it with a forward Euler step: that breaks reversibility and with it the
// exactness of the accept/reject rule.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

// Integrate advances (position, momentum) through steps leapfrog updates of
// size stepSize and returns the full discretized path: steps+1 phase states,
// the first of which is a copy of the starting state. The potential energy
// is -LogDensity, so its negative gradient is +Gradient.
func (l *Leapfrog) Integrate(t Target, start PhaseState, stepSize float64, steps int) Trajectory {
	n := len(start.Position)

	traj := make(Trajectory, 0, steps+1)
	traj = append(traj, start.Clone())

	theta := start.Position.Clone()
	p := start.Momentum.Clone()
	half := 0.5 * stepSize

	for step := 0; step < steps; step++ {
		grad := t.Gradient(theta)
		for i := 0; i < n; i++ {
			p[i] += half * grad[i]
		}

		for i := 0; i < n; i++ {
			theta[i] += stepSize * p[i]
		}

		grad = t.Gradient(theta)
		for i := 0; i < n; i++ {
			p[i] += half * grad[i]
		}

		traj = append(traj, PhaseState{Position: theta.Clone(), Momentum: p.Clone()})
	}

	return traj
}
