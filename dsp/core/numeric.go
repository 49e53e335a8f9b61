// Package core holds scalar helpers shared by the DSP primitives and effects.
package core

import "math"

const (
	defaultEpsilon = 1e-12

	// DenormalThreshold is the magnitude below which feedback state is
	// flushed to zero.
	DenormalThreshold = 1e-30
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	if x > -DenormalThreshold && x < DenormalThreshold {
		return 0
	}

	return x
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to a (fractional) sample
// count at sampleRate.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * 0.001 * sampleRate
}

// TimeConstantCoeff returns the one-pole smoothing coefficient
// exp(-1 / (ms/1000 * sampleRate)). Non-positive times yield 0, meaning the
// smoothed value jumps to its target immediately.
func TimeConstantCoeff(ms, sampleRate float64) float64 {
	samples := MsToSamples(ms, sampleRate)
	if samples <= 0 || !IsFinite(samples) {
		return 0
	}

	return math.Exp(-1 / samples)
}
