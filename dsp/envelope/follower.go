// Package envelope provides an asymmetric attack/release envelope follower.
package envelope

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
)

// Follower smooths a non-negative level signal with separate attack and
// release time constants.
type Follower struct {
	attackCoeff  float64
	releaseCoeff float64
	level        float64
}

// New returns a follower at level 0. Times are in milliseconds; zero means
// instantaneous.
func New(attackMs, releaseMs, sampleRate float64) (*Follower, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("envelope sample rate must be > 0: %f", sampleRate)
	}
	if attackMs < 0 || math.IsNaN(attackMs) || math.IsInf(attackMs, 0) {
		return nil, fmt.Errorf("envelope attack must be >= 0 and finite: %f", attackMs)
	}
	if releaseMs < 0 || math.IsNaN(releaseMs) || math.IsInf(releaseMs, 0) {
		return nil, fmt.Errorf("envelope release must be >= 0 and finite: %f", releaseMs)
	}

	return &Follower{
		attackCoeff:  core.TimeConstantCoeff(attackMs, sampleRate),
		releaseCoeff: core.TimeConstantCoeff(releaseMs, sampleRate),
	}, nil
}

// Next feeds one level sample and returns the updated envelope.
func (f *Follower) Next(level float64) float64 {
	coeff := f.releaseCoeff
	if level > f.level {
		coeff = f.attackCoeff
	}
	f.level = core.FlushDenormals(coeff*f.level + (1-coeff)*level)
	return f.level
}

// Level returns the current envelope value.
func (f *Follower) Level() float64 { return f.level }

// Reset clears the envelope to zero.
func (f *Follower) Reset() { f.level = 0 }

// AttackCoeff returns the one-pole attack coefficient.
func (f *Follower) AttackCoeff() float64 { return f.attackCoeff }

// ReleaseCoeff returns the one-pole release coefficient.
func (f *Follower) ReleaseCoeff() float64 { return f.releaseCoeff }
