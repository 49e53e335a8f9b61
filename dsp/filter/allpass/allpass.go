// Package allpass provides all-pass filter sections: a delay-line-backed
// Schroeder all-pass for diffusion and a first-order phase all-pass for
// phasers.
package allpass

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/delay"
)

// Section is a Schroeder all-pass with transfer function
//
//	H(z) = (-g + z^-D) / (1 - g*z^-D)
type Section struct {
	line  *delay.Line
	delay int
	gain  float64
}

// New returns a Schroeder all-pass with the given delay in samples and gain
// in (-1, 1).
func New(delaySamples int, gain float64) (*Section, error) {
	if delaySamples < 1 {
		return nil, fmt.Errorf("allpass delay must be >= 1: %d", delaySamples)
	}
	if gain <= -1 || gain >= 1 || math.IsNaN(gain) {
		return nil, fmt.Errorf("allpass gain must be in (-1, 1): %f", gain)
	}

	line, err := delay.New(delaySamples)
	if err != nil {
		return nil, err
	}

	return &Section{line: line, delay: delaySamples, gain: gain}, nil
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	// Offset D-1 before the write is the sample from D writes ago.
	delayed, _ := s.line.Read(s.delay - 1)

	w := core.FlushDenormals(x + s.gain*delayed)
	s.line.Write(w)

	return delayed - s.gain*w
}

// ProcessInPlace filters buf in place.
func (s *Section) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Delay returns the delay length in samples.
func (s *Section) Delay() int { return s.delay }

// Gain returns the all-pass gain.
func (s *Section) Gain() float64 { return s.gain }

// Reset clears the internal delay line.
func (s *Section) Reset() { s.line.Reset() }

// FirstOrder is a one-sample all-pass
//
//	H(z) = (a + z^-1) / (1 + a*z^-1)
//
// whose coefficient may change every sample.
type FirstOrder struct {
	x1, y1 float64
}

// ProcessSample filters x with coefficient a.
func (f *FirstOrder) ProcessSample(x, a float64) float64 {
	y := a*x + f.x1 - a*f.y1
	f.x1 = x
	f.y1 = core.FlushDenormals(y)

	return y
}

// Reset clears the filter state.
func (f *FirstOrder) Reset() {
	f.x1 = 0
	f.y1 = 0
}

// Coefficient returns the first-order all-pass coefficient placing the 90°
// phase point at freqHz. The frequency is clamped below Nyquist.
func Coefficient(freqHz, sampleRate float64) float64 {
	freqHz = core.Clamp(freqHz, 1e-3*sampleRate, 0.499*sampleRate)
	t := math.Tan(math.Pi * freqHz / sampleRate)
	return (t - 1) / (t + 1)
}
