package modulation

import (
	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultFlangerRateHz   = 0.5
	defaultFlangerDepthMs  = 2.0
	defaultFlangerFeedback = 0.5
	defaultFlangerMix      = 0.5
	defaultFlangerDelayMs  = 1.0

	minFlangerRateHz   = 0.1
	maxFlangerRateHz   = 10.0
	minFlangerDepthMs  = 0.1
	maxFlangerDepthMs  = 10.0
	maxFlangerFeedback = 0.9
	minFlangerDelayMs  = 0.1
	maxFlangerDelayMs  = 5.0
)

// FlangerDescriptor registers the flanger.
var FlangerDescriptor = effects.Descriptor{
	Name:        "flanger",
	Description: "Short swept delay with feedback for comb-filter sweeps",
	Params: []param.Spec{
		{Name: "rate", Description: "LFO rate", Min: minFlangerRateHz, Max: maxFlangerRateHz, Default: defaultFlangerRateHz, Unit: param.Hertz},
		{Name: "depth", Description: "Modulation depth", Min: minFlangerDepthMs, Max: maxFlangerDepthMs, Default: defaultFlangerDepthMs, Unit: param.Milliseconds},
		{Name: "feedback", Description: "Amount of output fed back", Min: 0, Max: maxFlangerFeedback, Default: defaultFlangerFeedback, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultFlangerMix, Unit: param.Ratio},
		{Name: "delay", Description: "Base delay", Min: minFlangerDelayMs, Max: maxFlangerDelayMs, Default: defaultFlangerDelayMs, Unit: param.Milliseconds},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("flanger", f, func(int) (effects.ChannelProcessor, error) {
			return NewFlanger(f.SampleRate,
				WithFlangerRate(p.Float("rate")),
				WithFlangerDepth(p.Float("depth")),
				WithFlangerFeedback(p.Float("feedback")),
				WithFlangerMix(p.Float("mix")),
				WithFlangerDelay(p.Float("delay")),
			)
		})
	},
}

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rateHz   float64
	depthMs  float64
	feedback float64
	mix      float64
	delayMs  float64
}

// WithFlangerRate sets the LFO rate in Hz.
func WithFlangerRate(hz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := checkRange("flanger rate", hz, minFlangerRateHz, maxFlangerRateHz); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithFlangerDepth sets the sweep depth in milliseconds.
func WithFlangerDepth(ms float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := checkRange("flanger depth", ms, minFlangerDepthMs, maxFlangerDepthMs); err != nil {
			return err
		}
		cfg.depthMs = ms
		return nil
	}
}

// WithFlangerFeedback sets the feedback amount in [0, 0.9].
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := checkRange("flanger feedback", feedback, 0, maxFlangerFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithFlangerMix sets the wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := checkRange("flanger mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithFlangerDelay sets the base delay in milliseconds.
func WithFlangerDelay(ms float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := checkRange("flanger delay", ms, minFlangerDelayMs, maxFlangerDelayMs); err != nil {
			return err
		}
		cfg.delayMs = ms
		return nil
	}
}

// Flanger sweeps a short delay between base and base+depth and feeds the
// delayed signal back into the line.
type Flanger struct {
	cfg          flangerConfig
	baseSamples  float64
	depthSamples float64

	osc  *lfo.LFO
	line *modulatedDelay
}

// NewFlanger creates a flanger with default settings.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	if err := checkSampleRate("flanger", sampleRate); err != nil {
		return nil, err
	}

	cfg := flangerConfig{
		rateHz:   defaultFlangerRateHz,
		depthMs:  defaultFlangerDepthMs,
		feedback: defaultFlangerFeedback,
		mix:      defaultFlangerMix,
		delayMs:  defaultFlangerDelayMs,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Flanger{
		cfg:          cfg,
		baseSamples:  core.MsToSamples(cfg.delayMs, sampleRate),
		depthSamples: core.MsToSamples(cfg.depthMs, sampleRate),
	}

	var err error
	if f.osc, err = lfo.New(cfg.rateHz, sampleRate, lfo.Sine); err != nil {
		return nil, err
	}
	if f.line, err = newModulatedDelay(f.baseSamples+f.depthSamples, cfg.feedback); err != nil {
		return nil, err
	}
	return f, nil
}

// ProcessSample processes one sample.
func (f *Flanger) ProcessSample(input float64) (float64, error) {
	mod := 0.5 * (f.osc.Next() + 1)
	delayed, err := f.line.process(input, f.baseSamples+f.depthSamples*mod)
	if err != nil {
		return 0, err
	}
	return input*(1-f.cfg.mix) + delayed*f.cfg.mix, nil
}

// ProcessInPlace applies flanging to buf in place.
func (f *Flanger) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		y, err := f.ProcessSample(x)
		if err != nil {
			return err
		}
		buf[i] = y
	}
	return nil
}

// Reset clears delay state and restarts the LFO.
func (f *Flanger) Reset() {
	f.line.reset()
	f.osc.Reset()
}
