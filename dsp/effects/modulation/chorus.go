package modulation

import (
	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultChorusRateHz   = 0.5
	defaultChorusDepthMs  = 2.0
	defaultChorusMix      = 0.5
	defaultChorusFeedback = 0.0
	defaultChorusDelayMs  = 20.0

	minChorusRateHz   = 0.1
	maxChorusRateHz   = 10.0
	minChorusDepthMs  = 0.1
	maxChorusDepthMs  = 10.0
	maxChorusFeedback = 0.9
	minChorusDelayMs  = 5.0
	maxChorusDelayMs  = 50.0
)

// ChorusDescriptor registers the chorus.
var ChorusDescriptor = effects.Descriptor{
	Name:        "chorus",
	Description: "Modulated delay that thickens the signal",
	Params: []param.Spec{
		{Name: "rate", Description: "LFO rate", Min: minChorusRateHz, Max: maxChorusRateHz, Default: defaultChorusRateHz, Unit: param.Hertz},
		{Name: "depth", Description: "Modulation depth", Min: minChorusDepthMs, Max: maxChorusDepthMs, Default: defaultChorusDepthMs, Unit: param.Milliseconds},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultChorusMix, Unit: param.Ratio},
		{Name: "feedback", Description: "Amount of output fed back", Min: 0, Max: maxChorusFeedback, Default: defaultChorusFeedback, Unit: param.Ratio},
		{Name: "delay", Description: "Base delay", Min: minChorusDelayMs, Max: maxChorusDelayMs, Default: defaultChorusDelayMs, Unit: param.Milliseconds},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("chorus", f, func(int) (effects.ChannelProcessor, error) {
			return NewChorus(f.SampleRate,
				WithChorusRate(p.Float("rate")),
				WithChorusDepth(p.Float("depth")),
				WithChorusMix(p.Float("mix")),
				WithChorusFeedback(p.Float("feedback")),
				WithChorusDelay(p.Float("delay")),
			)
		})
	},
}

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	rateHz   float64
	depthMs  float64
	mix      float64
	feedback float64
	delayMs  float64
}

// WithChorusRate sets the LFO rate in Hz.
func WithChorusRate(hz float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := checkRange("chorus rate", hz, minChorusRateHz, maxChorusRateHz); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithChorusDepth sets the modulation depth in milliseconds.
func WithChorusDepth(ms float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := checkRange("chorus depth", ms, minChorusDepthMs, maxChorusDepthMs); err != nil {
			return err
		}
		cfg.depthMs = ms
		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := checkRange("chorus mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithChorusFeedback sets the feedback amount in [0, 0.9].
func WithChorusFeedback(feedback float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := checkRange("chorus feedback", feedback, 0, maxChorusFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithChorusDelay sets the base delay in milliseconds.
func WithChorusDelay(ms float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := checkRange("chorus delay", ms, minChorusDelayMs, maxChorusDelayMs); err != nil {
			return err
		}
		cfg.delayMs = ms
		return nil
	}
}

// Chorus is a single-voice modulated delay. The delay time follows
//
//	d = base + depth * (lfo + 1) / 2
//
// so it sweeps between base and base+depth.
type Chorus struct {
	cfg          chorusConfig
	baseSamples  float64
	depthSamples float64

	osc  *lfo.LFO
	line *modulatedDelay
}

// NewChorus creates a chorus with default settings.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if err := checkSampleRate("chorus", sampleRate); err != nil {
		return nil, err
	}

	cfg := chorusConfig{
		rateHz:   defaultChorusRateHz,
		depthMs:  defaultChorusDepthMs,
		mix:      defaultChorusMix,
		feedback: defaultChorusFeedback,
		delayMs:  defaultChorusDelayMs,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Chorus{
		cfg:          cfg,
		baseSamples:  core.MsToSamples(cfg.delayMs, sampleRate),
		depthSamples: core.MsToSamples(cfg.depthMs, sampleRate),
	}

	var err error
	if c.osc, err = lfo.New(cfg.rateHz, sampleRate, lfo.Sine); err != nil {
		return nil, err
	}
	if c.line, err = newModulatedDelay(c.baseSamples+c.depthSamples, cfg.feedback); err != nil {
		return nil, err
	}
	return c, nil
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) (float64, error) {
	mod := 0.5 * (c.osc.Next() + 1)
	delayed, err := c.line.process(input, c.baseSamples+c.depthSamples*mod)
	if err != nil {
		return 0, err
	}
	return input*(1-c.cfg.mix) + delayed*c.cfg.mix, nil
}

// ProcessInPlace applies chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		y, err := c.ProcessSample(x)
		if err != nil {
			return err
		}
		buf[i] = y
	}
	return nil
}

// Reset clears delay state and restarts the LFO.
func (c *Chorus) Reset() {
	c.line.reset()
	c.osc.Reset()
}
