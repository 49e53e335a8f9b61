// Package lfo provides a low-frequency oscillator driven by a normalized
// phase accumulator.
package lfo

import (
	"fmt"
	"math"
)

// Waveform selects the LFO shape.
type Waveform int

const (
	// Sine evaluates sin(2πp).
	Sine Waveform = iota
	// Triangle is piecewise linear, rising through zero at p=0.
	Triangle
	// Square is +1 for the first half cycle and -1 for the second.
	Square
	// Sawtooth rises linearly from -1 to 1.
	Sawtooth
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// LFO is a periodic modulation source with output in [-1, 1].
type LFO struct {
	waveform   Waveform
	rateHz     float64
	sampleRate float64
	phase      float64
	inc        float64
}

// New returns an LFO at phase 0.
func New(rateHz, sampleRate float64, waveform Waveform) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0: %f", sampleRate)
	}
	if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return nil, fmt.Errorf("lfo rate must be >= 0 and finite: %f", rateHz)
	}
	if waveform < Sine || waveform > Sawtooth {
		return nil, fmt.Errorf("lfo waveform not supported: %d", waveform)
	}

	return &LFO{
		waveform:   waveform,
		rateHz:     rateHz,
		sampleRate: sampleRate,
		inc:        rateHz / sampleRate,
	}, nil
}

// Next evaluates the waveform at the current phase, then advances the phase.
func (l *LFO) Next() float64 {
	v := Value(l.waveform, l.phase)

	l.phase += l.inc
	l.phase -= math.Floor(l.phase)

	return v
}

// Reset restarts the oscillator from phase 0.
func (l *LFO) Reset() {
	l.phase = 0
}

// Phase returns the normalized phase in [0, 1).
func (l *LFO) Phase() float64 {
	return l.phase
}

// SetPhase sets the normalized phase; values outside [0, 1) wrap.
func (l *LFO) SetPhase(phase float64) {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return
	}
	l.phase = phase - math.Floor(phase)
}

// RateHz returns the oscillator frequency.
func (l *LFO) RateHz() float64 { return l.rateHz }

// Waveform returns the oscillator shape.
func (l *LFO) Waveform() Waveform { return l.waveform }

// Value evaluates waveform w at normalized phase p in [0, 1).
func Value(w Waveform, p float64) float64 {
	switch w {
	case Triangle:
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*p - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
