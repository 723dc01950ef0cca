package hmc

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// SquaredNorm is the kinetic-energy term 2*K for a unit mass matrix.
func (s State) SquaredNorm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return sum
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Target is a fixed, unnormalized probability density the sampler explores.
// LogDensity must be finite on all of R^Dim unless the target genuinely
// assigns zero mass there; Gradient is the analytic gradient of LogDensity.
type Target interface {
	LogDensity(x State) float64
	Gradient(x State) State
	Dim() int
}

// PhaseState pairs a position with its auxiliary momentum. Only the position
// survives into the chain; momentum is redrawn every iteration.
type PhaseState struct {
	Position State
	Momentum State
}

func (ps PhaseState) Clone() PhaseState {
	return PhaseState{Position: ps.Position.Clone(), Momentum: ps.Momentum.Clone()}
}

// Trajectory is the discretized leapfrog path of a single proposal,
// steps+1 phase states including the starting point.
type Trajectory []PhaseState

// Hamiltonian is the total energy -log pi(theta) + |p|^2/2 (unit mass).
func Hamiltonian(t Target, ps PhaseState) float64 {
	return -t.LogDensity(ps.Position) + 0.5*ps.Momentum.SquaredNorm()
}

// IterationStats describes one completed accept/reject cycle. It is what
// metrics and observers see.
type IterationStats struct {
	Index       int
	Start       State
	Proposal    State
	Sample      State
	Accepted    bool
	Divergent   bool
	EnergyError float64
}

type Metric interface {
	Name() string
	Observe(it IterationStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnIteration(it IterationStats)
}

type Config struct {
	StepSize           float64
	Steps              int
	Samples            int
	Seed               int64
	ForceReject        bool
	RecordTrajectories bool
}

func DefaultConfig() Config {
	return Config{
		StepSize:           0.06,
		Steps:              39,
		Samples:            1000,
		Seed:               1,
		RecordTrajectories: false,
	}
}

type Result struct {
	Samples      []State
	Trajectories []Trajectory
	Accepted     []bool
	AcceptCount  int
	Divergences  int
	Metrics      map[string]float64
}

// AcceptanceRate is the fraction of iterations whose proposal was accepted.
func (r *Result) AcceptanceRate() float64 {
	if len(r.Accepted) == 0 {
		return 0
	}
	return float64(r.AcceptCount) / float64(len(r.Accepted))
}
