package dynamics

import (
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/envelope"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultLimiterThreshold = 0.8
	defaultLimiterAttackMs  = 1.0
	defaultLimiterReleaseMs = 50.0
	defaultLimiterOutput    = 1.0

	minLimiterThreshold = 0.1
	minLimiterAttackMs  = 0.1
	maxLimiterAttackMs  = 10.0
	minLimiterReleaseMs = 1.0
	maxLimiterReleaseMs = 500.0
	minLimiterOutput    = 0.1
	maxLimiterOutput    = 2.0

	minLimiterEnvelope = 1e-3
)

// LimiterDescriptor registers the limiter.
var LimiterDescriptor = effects.Descriptor{
	Name:        "limiter",
	Description: "Peak limiter with a hard output ceiling",
	Params: []param.Spec{
		{Name: "threshold", Description: "Limiting level", Min: minLimiterThreshold, Max: 1, Default: defaultLimiterThreshold, Unit: param.Ratio},
		{Name: "attack", Description: "Gain reduction attack", Min: minLimiterAttackMs, Max: maxLimiterAttackMs, Default: defaultLimiterAttackMs, Unit: param.Milliseconds},
		{Name: "release", Description: "Gain recovery time", Min: minLimiterReleaseMs, Max: maxLimiterReleaseMs, Default: defaultLimiterReleaseMs, Unit: param.Milliseconds},
		{Name: "output", Description: "Output gain", Min: minLimiterOutput, Max: maxLimiterOutput, Default: defaultLimiterOutput, Unit: param.Ratio},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("limiter", f, func(int) (effects.ChannelProcessor, error) {
			l, err := NewLimiter(f.SampleRate)
			if err != nil {
				return nil, err
			}
			if err := l.SetThreshold(p.Float("threshold")); err != nil {
				return nil, err
			}
			if err := l.SetTimes(p.Float("attack"), p.Float("release")); err != nil {
				return nil, err
			}
			if err := l.SetOutputGain(p.Float("output")); err != nil {
				return nil, err
			}
			return l, nil
		})
	},
}

// Limiter drives its gain toward threshold/envelope once the detected level
// exceeds the threshold, then clips to the ceiling threshold*output. No
// output sample exceeds the ceiling, including the first sample of a
// transient.
type Limiter struct {
	threshold  float64
	attackMs   float64
	releaseMs  float64
	outputGain float64

	sampleRate float64
	detector   *envelope.Follower
	reduction  *envelope.Follower

	metrics Metrics
}

// NewLimiter creates a limiter with default settings.
func NewLimiter(sampleRate float64) (*Limiter, error) {
	if err := validateSampleRate("limiter", sampleRate); err != nil {
		return nil, err
	}

	l := &Limiter{
		threshold:  defaultLimiterThreshold,
		outputGain: defaultLimiterOutput,
		sampleRate: sampleRate,
		metrics:    newMetrics(),
	}
	if err := l.SetTimes(defaultLimiterAttackMs, defaultLimiterReleaseMs); err != nil {
		return nil, err
	}
	return l, nil
}

// SetThreshold sets the limiting level in [0.1, 1].
func (l *Limiter) SetThreshold(threshold float64) error {
	if err := validateRange("limiter threshold", threshold, minLimiterThreshold, 1); err != nil {
		return err
	}
	l.threshold = threshold
	return nil
}

// SetTimes sets attack and release in milliseconds.
func (l *Limiter) SetTimes(attackMs, releaseMs float64) error {
	if err := validateRange("limiter attack", attackMs, minLimiterAttackMs, maxLimiterAttackMs); err != nil {
		return err
	}
	if err := validateRange("limiter release", releaseMs, minLimiterReleaseMs, maxLimiterReleaseMs); err != nil {
		return err
	}
	detector, err := envelope.New(attackMs, releaseMs, l.sampleRate)
	if err != nil {
		return err
	}
	reduction, err := envelope.New(attackMs, releaseMs, l.sampleRate)
	if err != nil {
		return err
	}
	l.attackMs, l.releaseMs = attackMs, releaseMs
	l.detector, l.reduction = detector, reduction
	return nil
}

// SetOutputGain sets the output gain in [0.1, 2].
func (l *Limiter) SetOutputGain(gain float64) error {
	if err := validateRange("limiter output gain", gain, minLimiterOutput, maxLimiterOutput); err != nil {
		return err
	}
	l.outputGain = gain
	return nil
}

// Ceiling returns the largest output magnitude the limiter can produce.
func (l *Limiter) Ceiling() float64 {
	return min(l.threshold*l.outputGain, 1)
}

// ProcessSample processes one sample.
func (l *Limiter) ProcessSample(input float64) float64 {
	level := math.Abs(input)
	env := l.detector.Next(level)

	target := 1.0
	if env > l.threshold {
		target = l.threshold / max(env, minLimiterEnvelope)
	}
	// Reduction is tracked as 1-gain so deeper limiting uses the attack time.
	gain := 1 - l.reduction.Next(1-target)

	ceiling := l.Ceiling()
	output := core.Clamp(input*gain*l.outputGain, -ceiling, ceiling)
	l.metrics.update(level, math.Abs(output), gain)
	return output
}

// ProcessInPlace limits buf in place.
func (l *Limiter) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = l.ProcessSample(x)
	}
	return nil
}

// Reset clears envelope state and metrics.
func (l *Limiter) Reset() {
	l.detector.Reset()
	l.reduction.Reset()
	l.metrics = newMetrics()
}

// GetMetrics returns current metering values.
func (l *Limiter) GetMetrics() Metrics { return l.metrics }
