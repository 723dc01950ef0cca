// Package analysis provides chain diagnostics computed after a run:
// per-coordinate autocorrelation and the integrated autocorrelation time,
// which measures how many iterations one effectively independent draw
// costs.
package analysis
