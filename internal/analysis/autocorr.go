package analysis

import "github.com/chemketoo/gentleHMC/internal/hmc"

// Component extracts a single coordinate from a chain of samples.
func Component(samples []hmc.State, coord int) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if coord < len(s) {
			out = append(out, s[coord])
		}
	}
	return out
}

// Autocorrelation returns the normalized autocorrelation function of the
// series for lags 0..maxLag (rho[0] == 1). A constant series has undefined
// correlation; it is reported as all zeros past lag 0.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	var c0 float64
	for _, v := range series {
		c0 += (v - mean) * (v - mean)
	}

	rho := make([]float64, maxLag+1)
	rho[0] = 1
	if c0 == 0 {
		return rho
	}

	for lag := 1; lag <= maxLag; lag++ {
		var c float64
		for i := 0; i+lag < n; i++ {
			c += (series[i] - mean) * (series[i+lag] - mean)
		}
		rho[lag] = c / c0
	}
	return rho
}

// IntegratedTime estimates the integrated autocorrelation time
// 1 + 2*sum(rho_k), truncating the sum at the first non-positive lag
// (Geyer's initial positive sequence cutoff, simplified to single lags).
func IntegratedTime(series []float64, maxLag int) float64 {
	rho := Autocorrelation(series, maxLag)
	if rho == nil {
		return 0
	}
	tau := 1.0
	for lag := 1; lag < len(rho); lag++ {
		if rho[lag] <= 0 {
			break
		}
		tau += 2 * rho[lag]
	}
	return tau
}

// EffectiveSamples converts a chain length and its integrated time into an
// effective sample count.
func EffectiveSamples(n int, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	return float64(n) / tau
}
