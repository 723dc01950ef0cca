// Package target provides the 2-D densities the sampler runs against.
//
// Each target is an immutable value constructed once per experiment and
// implements hmc.Target (log-density, analytic gradient, dimension).
// Targets with a closed-form sampler additionally implement [ExactSampler],
// which gives ground-truth draws for validating chains and for plotting.
package target
