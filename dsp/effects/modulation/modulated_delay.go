package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/delay"
)

// modulatedDelay is the feedback delay line shared by chorus, flanger and
// vibrato. The caller supplies the delay in samples for every sample.
type modulatedDelay struct {
	line     *delay.Line
	feedback float64
}

func newModulatedDelay(maxDelaySamples, feedback float64) (*modulatedDelay, error) {
	line, err := delay.New(int(math.Ceil(maxDelaySamples)) + 1)
	if err != nil {
		return nil, err
	}
	return &modulatedDelay{line: line, feedback: feedback}, nil
}

// process reads the line d samples back, then writes x plus feedback.
// Delays shorter than one sample are clamped to one.
func (m *modulatedDelay) process(x, d float64) (float64, error) {
	delayed, err := m.line.ReadFractional(max(d, 1) - 1)
	if err != nil {
		return 0, err
	}
	m.line.Write(core.FlushDenormals(x + delayed*m.feedback))
	return delayed, nil
}

func (m *modulatedDelay) reset() { m.line.Reset() }

func checkSampleRate(effect string, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%s sample rate must be > 0: %f", effect, sampleRate)
	}
	return nil
}

func checkRange(what string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) {
		return fmt.Errorf("%s must be in [%g, %g]: %f", what, lo, hi, v)
	}
	return nil
}
