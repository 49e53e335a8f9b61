package dynamics

import (
	"fmt"
	"math"
)

// Metrics holds metering information collected while processing.
type Metrics struct {
	InputPeak     float64 // Maximum input level since last reset
	OutputPeak    float64 // Maximum output level since last reset
	GainReduction float64 // Minimum gain (maximum attenuation) since last reset
}

func newMetrics() Metrics { return Metrics{GainReduction: 1} }

func (m *Metrics) update(inputLevel, outputLevel, gain float64) {
	if inputLevel > m.InputPeak {
		m.InputPeak = inputLevel
	}
	if outputLevel > m.OutputPeak {
		m.OutputPeak = outputLevel
	}
	if gain < m.GainReduction {
		m.GainReduction = gain
	}
}

func validateSampleRate(effect string, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%s sample rate must be > 0: %f", effect, sampleRate)
	}
	return nil
}

func validateRange(what string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) {
		return fmt.Errorf("%s must be in [%g, %g]: %f", what, lo, hi, v)
	}
	return nil
}
