package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/delay"
	"github.com/cwbudde/audiofx/dsp/filter/onepole"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultDelayTimeMs   = 250.0
	defaultDelayFeedback = 0.3
	defaultDelayMix      = 0.3
	defaultDelayDamping  = 0.2
	minDelayTimeMs       = 10.0
	maxDelayTimeMs       = 2000.0
	maxDelayFeedback     = 0.9
)

// DelayDescriptor registers the feedback delay.
var DelayDescriptor = Descriptor{
	Name:        "delay",
	Description: "Feedback echo with damped repeats",
	Params: []param.Spec{
		{Name: "delay", Description: "Delay time", Min: minDelayTimeMs, Max: maxDelayTimeMs, Default: defaultDelayTimeMs, Unit: param.Milliseconds},
		{Name: "feedback", Description: "Amount of output fed back", Min: 0, Max: maxDelayFeedback, Default: defaultDelayFeedback, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultDelayMix, Unit: param.Ratio},
		{Name: "damping", Description: "High-frequency loss per repeat", Min: 0, Max: 1, Default: defaultDelayDamping, Unit: param.Ratio},
	},
	New: func(p param.Set, f Format) (Effect, error) {
		return NewPerChannel("delay", f, func(int) (ChannelProcessor, error) {
			return NewDelay(f.SampleRate,
				WithDelayTimeMs(p.Float("delay")),
				WithDelayFeedback(p.Float("feedback")),
				WithDelayMix(p.Float("mix")),
				WithDelayDamping(p.Float("damping")),
			)
		})
	},
}

// DelayOption mutates delay construction parameters.
type DelayOption func(*delayConfig) error

type delayConfig struct {
	timeMs   float64
	feedback float64
	mix      float64
	damping  float64
}

// WithDelayTimeMs sets the delay time in milliseconds.
func WithDelayTimeMs(ms float64) DelayOption {
	return func(cfg *delayConfig) error {
		if ms < minDelayTimeMs || ms > maxDelayTimeMs || math.IsNaN(ms) {
			return fmt.Errorf("delay time must be in [%g, %g] ms: %f", minDelayTimeMs, maxDelayTimeMs, ms)
		}
		cfg.timeMs = ms
		return nil
	}
}

// WithDelayFeedback sets the feedback amount in [0, 0.9].
func WithDelayFeedback(feedback float64) DelayOption {
	return func(cfg *delayConfig) error {
		if feedback < 0 || feedback > maxDelayFeedback || math.IsNaN(feedback) {
			return fmt.Errorf("delay feedback must be in [0, %g]: %f", maxDelayFeedback, feedback)
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithDelayMix sets the wet amount in [0, 1].
func WithDelayMix(mix float64) DelayOption {
	return func(cfg *delayConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// WithDelayDamping sets the feedback damping in [0, 1].
func WithDelayDamping(damping float64) DelayOption {
	return func(cfg *delayConfig) error {
		if damping < 0 || damping > 1 || math.IsNaN(damping) {
			return fmt.Errorf("delay damping must be in [0, 1]: %f", damping)
		}
		cfg.damping = damping
		return nil
	}
}

// Delay is a feedback delay whose repeats pass through a one-pole damping
// filter.
type Delay struct {
	sampleRate   float64
	cfg          delayConfig
	delaySamples int

	line *delay.Line
	damp *onepole.Lowpass
}

// NewDelay creates a delay with practical defaults.
func NewDelay(sampleRate float64, opts ...DelayOption) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}

	cfg := delayConfig{
		timeMs:   defaultDelayTimeMs,
		feedback: defaultDelayFeedback,
		mix:      defaultDelayMix,
		damping:  defaultDelayDamping,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	delaySamples := max(int(math.Round(core.MsToSamples(cfg.timeMs, sampleRate))), 1)
	line, err := delay.New(delaySamples)
	if err != nil {
		return nil, err
	}
	damp, err := onepole.New(cfg.damping)
	if err != nil {
		return nil, err
	}

	return &Delay{
		sampleRate:   sampleRate,
		cfg:          cfg,
		delaySamples: delaySamples,
		line:         line,
		damp:         damp,
	}, nil
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) (float64, error) {
	delayed, err := d.line.Read(d.delaySamples - 1)
	if err != nil {
		return 0, err
	}

	fb := d.damp.ProcessSample(delayed) * d.cfg.feedback
	d.line.Write(core.Clamp(input+fb, -1, 1))

	return input*(1-d.cfg.mix) + delayed*d.cfg.mix, nil
}

// ProcessInPlace applies delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		y, err := d.ProcessSample(x)
		if err != nil {
			return err
		}
		buf[i] = y
	}
	return nil
}

// Reset clears delay state.
func (d *Delay) Reset() {
	d.line.Reset()
	d.damp.Reset()
}

// DelaySamples returns the delay length in samples.
func (d *Delay) DelaySamples() int { return d.delaySamples }

// Feedback returns feedback amount.
func (d *Delay) Feedback() float64 { return d.cfg.feedback }

// Mix returns wet amount in [0, 1].
func (d *Delay) Mix() float64 { return d.cfg.mix }
