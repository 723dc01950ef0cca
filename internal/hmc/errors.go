package hmc

import "errors"

// Domain errors for sampler configuration. All are raised eagerly at entry,
// never mid-chain.
var (
	// ErrInvalidStepSize indicates a non-positive leapfrog step size.
	ErrInvalidStepSize = errors.New("hmc: step size must be positive")

	// ErrInvalidStepCount indicates fewer than one leapfrog step per proposal.
	ErrInvalidStepCount = errors.New("hmc: step count must be at least 1")

	// ErrInvalidSampleCount indicates a chain length below 1.
	ErrInvalidSampleCount = errors.New("hmc: sample count must be at least 1")

	// ErrDimensionMismatch indicates a start state whose length does not
	// match the target dimension.
	ErrDimensionMismatch = errors.New("hmc: dimension mismatch between state and target")
)
