package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/filter/biquad"
	"github.com/cwbudde/audiofx/dsp/filter/design"
)

const (
	thdnNotchQ       = 1.0
	thdnSettlePeriod = 10
)

var errNoSamples = errors.New("level: no samples")

// THDN returns total harmonic distortion plus noise in dB: the RMS of the
// signal with the fundamental notched out relative to the RMS of the signal.
// The first ten periods of the fundamental are excluded while the notch
// settles. Silence reads Floor.
func THDN(samples []float64, sampleRate, fundamentalHz float64) (float64, error) {
	if len(samples) == 0 {
		return 0, errNoSamples
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("level: sample rate must be > 0: %v", sampleRate)
	}
	if !(fundamentalHz > 0 && fundamentalHz < sampleRate/2) {
		return 0, fmt.Errorf("level: fundamental %v Hz outside (0, %v)", fundamentalHz, sampleRate/2)
	}

	notch := biquad.NewSection(design.Notch(fundamentalHz, thdnNotchQ, sampleRate))
	residual := make([]float64, len(samples))
	notch.ProcessBlockTo(residual, samples)

	settle := min(int(thdnSettlePeriod*sampleRate/fundamentalHz), len(samples)/2)

	total, rest := 0.0, 0.0
	for i := settle; i < len(samples); i++ {
		total += samples[i] * samples[i]
		rest += residual[i] * residual[i]
	}
	if total == 0 || rest == 0 {
		return Floor, nil
	}

	return max(10*math.Log10(rest/total), Floor), nil
}
