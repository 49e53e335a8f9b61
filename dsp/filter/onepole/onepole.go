// Package onepole provides the one-pole low-pass used to damp feedback paths.
package onepole

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
)

// Lowpass is a one-pole smoother
//
//	y[n] = (1-d)*x[n] + d*y[n-1]
//
// where d is the damping amount. Damping 0 passes the input unchanged.
type Lowpass struct {
	damping float64
	state   float64
}

// New returns a damping filter with damping in [0, 1].
func New(damping float64) (*Lowpass, error) {
	if damping < 0 || damping > 1 || math.IsNaN(damping) {
		return nil, fmt.Errorf("onepole damping must be in [0, 1]: %f", damping)
	}
	return &Lowpass{damping: damping}, nil
}

// ProcessSample filters one sample.
func (l *Lowpass) ProcessSample(x float64) float64 {
	l.state = core.FlushDenormals(x*(1-l.damping) + l.state*l.damping)
	return l.state
}

// Damping returns the damping amount.
func (l *Lowpass) Damping() float64 { return l.damping }

// Reset clears the filter state.
func (l *Lowpass) Reset() { l.state = 0 }
