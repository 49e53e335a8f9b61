// Package level computes time-domain level statistics of a channel.
package level

import "math"

// Floor is the dB value reported for silence.
const Floor = -120.0

// Stats holds the level statistics of one channel.
type Stats struct {
	Frames        int
	DC            float64 // mean
	RMS           float64
	Peak          float64 // max |x|
	PeakPos       int
	CrestFactor   float64 // Peak / RMS, 0 for silence
	ZeroCrossings int
	// Clipped counts samples at or beyond full scale.
	Clipped int
}

// ToDB converts an amplitude to dBFS, clamped at Floor.
func ToDB(amplitude float64) float64 {
	a := math.Abs(amplitude)
	if a == 0 || math.IsNaN(a) {
		return Floor
	}
	return max(20*math.Log10(a), Floor)
}

// PeakDB returns the peak level in dBFS.
func (s Stats) PeakDB() float64 { return ToDB(s.Peak) }

// RMSDB returns the RMS level in dBFS.
func (s Stats) RMSDB() float64 { return ToDB(s.RMS) }

// CrestDB returns the crest factor in dB, 0 for silence.
func (s Stats) CrestDB() float64 {
	if s.CrestFactor == 0 {
		return 0
	}
	return 20 * math.Log10(s.CrestFactor)
}

// Calculate computes all statistics in a single pass. The mean uses Kahan
// summation.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var (
		sum, comp float64
		sumSq     float64
		peak      float64
		peakPos   int
		crossings int
		clipped   int
	)

	for i, x := range signal {
		y := x - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t

		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
			peakPos = i
		}
		if math.Abs(x) >= 1 {
			clipped++
		}
		if i > 0 && signal[i-1]*x < 0 {
			crossings++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Frames:        n,
		DC:            sum / float64(n),
		RMS:           rms,
		Peak:          peak,
		PeakPos:       peakPos,
		CrestFactor:   crest,
		ZeroCrossings: crossings,
		Clipped:       clipped,
	}
}
