// Package hmc provides core primitives for Hamiltonian Monte Carlo sampling.
//
// The package defines the fundamental interfaces and types for simulating
// leapfrog-discretized Hamiltonian dynamics over a differentiable log-density:
//
//   - [State]: vector representing a position or momentum
//   - [Target]: interface for target densities (log-density plus gradient)
//   - [Leapfrog]: fixed-step symplectic integrator
//   - [Sampler]: runs Metropolis-corrected HMC chains
//
// # Example
//
//	tgt, _ := target.NewBanana(1.25, 0.5, 0.95)
//	s := hmc.NewSampler(tgt)
//	result, _ := s.Run(ctx, hmc.State{0, 0}, cfg)
//
// # Thread Safety
//
// Sampler instances are NOT thread-safe: a chain is inherently sequential
// and each Sampler owns its random source. For independent parallel chains,
// use the [Ensemble] type which gives every chain its own Sampler and seed.
package hmc
