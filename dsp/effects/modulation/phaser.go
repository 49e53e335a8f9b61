package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/filter/allpass"
	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultPhaserRateHz   = 0.5
	defaultPhaserDepth    = 1.0
	defaultPhaserFeedback = 0.7
	defaultPhaserMix      = 0.5
	defaultPhaserStages   = 4
	defaultPhaserCenterHz = 1000.0

	minPhaserRateHz   = 0.1
	maxPhaserRateHz   = 10.0
	maxPhaserDepth    = 2.0
	maxPhaserFeedback = 0.9
	minPhaserStages   = 2
	maxPhaserStages   = 12
	minPhaserCenterHz = 200.0
	maxPhaserCenterHz = 5000.0
)

// PhaserDescriptor registers the phaser.
var PhaserDescriptor = effects.Descriptor{
	Name:        "phaser",
	Description: "Swept all-pass cascade producing moving notches",
	Params: []param.Spec{
		{Name: "rate", Description: "LFO rate", Min: minPhaserRateHz, Max: maxPhaserRateHz, Default: defaultPhaserRateHz, Unit: param.Hertz},
		{Name: "depth", Description: "Sweep range around the centre", Min: 0, Max: maxPhaserDepth, Default: defaultPhaserDepth, Unit: param.Octaves},
		{Name: "feedback", Description: "Amount of output fed back", Min: 0, Max: maxPhaserFeedback, Default: defaultPhaserFeedback, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultPhaserMix, Unit: param.Ratio},
		{Name: "stages", Description: "Number of all-pass stages", Min: minPhaserStages, Max: maxPhaserStages, Default: defaultPhaserStages, Unit: param.Unitless, Integer: true},
		{Name: "center", Description: "Sweep centre frequency", Min: minPhaserCenterHz, Max: maxPhaserCenterHz, Default: defaultPhaserCenterHz, Unit: param.Hertz},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("phaser", f, func(int) (effects.ChannelProcessor, error) {
			return NewPhaser(f.SampleRate,
				WithPhaserRate(p.Float("rate")),
				WithPhaserDepth(p.Float("depth")),
				WithPhaserFeedback(p.Float("feedback")),
				WithPhaserMix(p.Float("mix")),
				WithPhaserStages(p.Int("stages")),
				WithPhaserCenter(p.Float("center")),
			)
		})
	},
}

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	rateHz   float64
	depth    float64
	feedback float64
	mix      float64
	stages   int
	centerHz float64
}

// WithPhaserRate sets the LFO rate in Hz.
func WithPhaserRate(hz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := checkRange("phaser rate", hz, minPhaserRateHz, maxPhaserRateHz); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithPhaserDepth sets the sweep range in octaves either side of the centre.
func WithPhaserDepth(octaves float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := checkRange("phaser depth", octaves, 0, maxPhaserDepth); err != nil {
			return err
		}
		cfg.depth = octaves
		return nil
	}
}

// WithPhaserFeedback sets the feedback amount in [0, 0.9].
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := checkRange("phaser feedback", feedback, 0, maxPhaserFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithPhaserMix sets the wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := checkRange("phaser mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithPhaserStages sets the number of first-order all-pass stages.
func WithPhaserStages(stages int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if stages < minPhaserStages || stages > maxPhaserStages {
			return fmt.Errorf("phaser stages must be in [%d, %d]: %d", minPhaserStages, maxPhaserStages, stages)
		}
		cfg.stages = stages
		return nil
	}
}

// WithPhaserCenter sets the sweep centre frequency in Hz.
func WithPhaserCenter(hz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := checkRange("phaser center", hz, minPhaserCenterHz, maxPhaserCenterHz); err != nil {
			return err
		}
		cfg.centerHz = hz
		return nil
	}
}

// Phaser runs the signal through a cascade of first-order all-passes whose
// break frequency follows
//
//	f = center * 2^(depth * lfo)
//
// and mixes the result with the dry signal.
type Phaser struct {
	cfg        phaserConfig
	sampleRate float64

	osc    *lfo.LFO
	stages []allpass.FirstOrder
	last   float64
}

// NewPhaser creates a four-stage phaser with default settings.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	if err := checkSampleRate("phaser", sampleRate); err != nil {
		return nil, err
	}

	cfg := phaserConfig{
		rateHz:   defaultPhaserRateHz,
		depth:    defaultPhaserDepth,
		feedback: defaultPhaserFeedback,
		mix:      defaultPhaserMix,
		stages:   defaultPhaserStages,
		centerHz: defaultPhaserCenterHz,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := lfo.New(cfg.rateHz, sampleRate, lfo.Sine)
	if err != nil {
		return nil, err
	}

	return &Phaser{
		cfg:        cfg,
		sampleRate: sampleRate,
		osc:        osc,
		stages:     make([]allpass.FirstOrder, cfg.stages),
	}, nil
}

// ProcessSample processes one sample.
func (p *Phaser) ProcessSample(input float64) float64 {
	freq := p.cfg.centerHz * math.Exp2(p.cfg.depth*p.osc.Next())
	a := allpass.Coefficient(freq, p.sampleRate)

	s := input + p.cfg.feedback*p.last
	for i := range p.stages {
		s = p.stages[i].ProcessSample(s, a)
	}
	p.last = core.FlushDenormals(s)

	return core.Clamp(input*(1-p.cfg.mix)+s*p.cfg.mix, -1, 1)
}

// ProcessInPlace applies phasing to buf in place.
func (p *Phaser) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = p.ProcessSample(x)
	}
	return nil
}

// Stages returns the number of all-pass stages.
func (p *Phaser) Stages() int { return len(p.stages) }

// Reset clears all stage state and restarts the LFO.
func (p *Phaser) Reset() {
	for i := range p.stages {
		p.stages[i].Reset()
	}
	p.last = 0
	p.osc.Reset()
}
