package modulation

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultTremoloRateHz = 5.0
	defaultTremoloDepth  = 0.7

	minTremoloRateHz = 0.1
	maxTremoloRateHz = 20.0
)

// TremoloDescriptor registers the tremolo.
var TremoloDescriptor = effects.Descriptor{
	Name:        "tremolo",
	Description: "Periodic amplitude modulation",
	Params: []param.Spec{
		{Name: "rate", Description: "Modulation rate", Min: minTremoloRateHz, Max: maxTremoloRateHz, Default: defaultTremoloRateHz, Unit: param.Hertz},
		{Name: "depth", Description: "Modulation depth", Min: 0, Max: 1, Default: defaultTremoloDepth, Unit: param.Ratio},
		{Name: "wave", Description: "LFO waveform", Min: 0, Max: 3, Default: 0, Unit: param.Selector,
			Choices: []string{lfo.Sine.String(), lfo.Triangle.String(), lfo.Square.String(), lfo.Sawtooth.String()}},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("tremolo", f, func(int) (effects.ChannelProcessor, error) {
			return NewTremolo(f.SampleRate,
				WithTremoloRate(p.Float("rate")),
				WithTremoloDepth(p.Float("depth")),
				WithTremoloWaveform(lfo.Waveform(p.Int("wave"))),
			)
		})
	},
}

// TremoloOption mutates tremolo construction parameters.
type TremoloOption func(*tremoloConfig) error

type tremoloConfig struct {
	rateHz   float64
	depth    float64
	waveform lfo.Waveform
}

// WithTremoloRate sets modulation speed in Hz.
func WithTremoloRate(hz float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := checkRange("tremolo rate", hz, minTremoloRateHz, maxTremoloRateHz); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithTremoloDepth sets modulation depth in [0, 1].
func WithTremoloDepth(depth float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := checkRange("tremolo depth", depth, 0, 1); err != nil {
			return err
		}
		cfg.depth = depth
		return nil
	}
}

// WithTremoloWaveform selects the LFO shape.
func WithTremoloWaveform(w lfo.Waveform) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if w < lfo.Sine || w > lfo.Sawtooth {
			return fmt.Errorf("tremolo waveform not supported: %d", w)
		}
		cfg.waveform = w
		return nil
	}
}

// Tremolo scales the input by
//
//	g = 1 - depth + depth * (lfo + 1) / 2
//
// which moves between 1-depth and 1.
type Tremolo struct {
	depth float64
	osc   *lfo.LFO
	gains []float64
}

// NewTremolo creates a sine tremolo with default settings.
func NewTremolo(sampleRate float64, opts ...TremoloOption) (*Tremolo, error) {
	if err := checkSampleRate("tremolo", sampleRate); err != nil {
		return nil, err
	}

	cfg := tremoloConfig{
		rateHz:   defaultTremoloRateHz,
		depth:    defaultTremoloDepth,
		waveform: lfo.Sine,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := lfo.New(cfg.rateHz, sampleRate, cfg.waveform)
	if err != nil {
		return nil, err
	}
	return &Tremolo{depth: cfg.depth, osc: osc}, nil
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(input float64) float64 {
	return input * t.gain()
}

// ProcessInPlace fills a gain curve for the block and multiplies it into buf.
func (t *Tremolo) ProcessInPlace(buf []float64) error {
	if cap(t.gains) < len(buf) {
		t.gains = make([]float64, len(buf))
	}
	gains := t.gains[:len(buf)]
	for i := range gains {
		gains[i] = t.gain()
	}
	vecmath.MulBlockInPlace(buf, gains)
	return nil
}

// Waveform returns the LFO shape.
func (t *Tremolo) Waveform() lfo.Waveform { return t.osc.Waveform() }

// Reset restarts the LFO.
func (t *Tremolo) Reset() { t.osc.Reset() }

func (t *Tremolo) gain() float64 {
	return 1 - t.depth + t.depth*0.5*(t.osc.Next()+1)
}
