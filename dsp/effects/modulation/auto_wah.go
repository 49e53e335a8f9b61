package modulation

import (
	"math"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/envelope"
	"github.com/cwbudde/audiofx/dsp/filter/biquad"
	"github.com/cwbudde/audiofx/dsp/filter/design"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultAutoWahSensitivity = 0.5
	defaultAutoWahRangeHz     = 1000.0
	defaultAutoWahBaseHz      = 200.0
	defaultAutoWahResonance   = 2.0
	defaultAutoWahAttackMs    = 10.0
	defaultAutoWahReleaseMs   = 100.0

	autoWahDry = 0.3
	autoWahWet = 0.7
)

// AutoWahDescriptor registers the envelope-controlled wah.
var AutoWahDescriptor = effects.Descriptor{
	Name:        "auto_wah",
	Description: "Band-pass filter swept by the input level",
	Params: []param.Spec{
		{Name: "sensitivity", Description: "Envelope to sweep scaling", Min: 0, Max: 2, Default: defaultAutoWahSensitivity, Unit: param.Ratio},
		{Name: "frequency_range", Description: "Sweep width above the base frequency", Min: 100, Max: 3000, Default: defaultAutoWahRangeHz, Unit: param.Hertz},
		{Name: "base_frequency", Description: "Filter frequency at silence", Min: 50, Max: 800, Default: defaultAutoWahBaseHz, Unit: param.Hertz},
		{Name: "resonance", Description: "Filter Q", Min: 0.1, Max: 10, Default: defaultAutoWahResonance, Unit: param.Unitless},
		{Name: "attack_time", Description: "Envelope attack", Min: 1, Max: 100, Default: defaultAutoWahAttackMs, Unit: param.Milliseconds},
		{Name: "release_time", Description: "Envelope release", Min: 10, Max: 1000, Default: defaultAutoWahReleaseMs, Unit: param.Milliseconds},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("auto_wah", f, func(int) (effects.ChannelProcessor, error) {
			return NewAutoWah(f.SampleRate, AutoWahConfig{
				Sensitivity: p.Float("sensitivity"),
				RangeHz:     p.Float("frequency_range"),
				BaseHz:      p.Float("base_frequency"),
				Resonance:   p.Float("resonance"),
				AttackMs:    p.Float("attack_time"),
				ReleaseMs:   p.Float("release_time"),
			})
		})
	},
}

// AutoWahConfig holds the auto-wah settings.
type AutoWahConfig struct {
	Sensitivity float64
	RangeHz     float64
	BaseHz      float64
	Resonance   float64
	AttackMs    float64
	ReleaseMs   float64
}

// DefaultAutoWahConfig returns the registered defaults.
func DefaultAutoWahConfig() AutoWahConfig {
	return AutoWahConfig{
		Sensitivity: defaultAutoWahSensitivity,
		RangeHz:     defaultAutoWahRangeHz,
		BaseHz:      defaultAutoWahBaseHz,
		Resonance:   defaultAutoWahResonance,
		AttackMs:    defaultAutoWahAttackMs,
		ReleaseMs:   defaultAutoWahReleaseMs,
	}
}

// AutoWah tracks |x| with an envelope follower and moves a constant-peak
// band-pass to
//
//	f = base + min(env*sensitivity, 1) * range
//
// The output is 30% dry and 70% filtered.
type AutoWah struct {
	cfg        AutoWahConfig
	sampleRate float64

	env    *envelope.Follower
	filter *biquad.Section
}

// NewAutoWah creates an auto-wah.
func NewAutoWah(sampleRate float64, cfg AutoWahConfig) (*AutoWah, error) {
	if err := checkSampleRate("auto-wah", sampleRate); err != nil {
		return nil, err
	}
	for _, c := range []struct {
		what   string
		v      float64
		lo, hi float64
	}{
		{"auto-wah sensitivity", cfg.Sensitivity, 0, 2},
		{"auto-wah frequency range", cfg.RangeHz, 100, 3000},
		{"auto-wah base frequency", cfg.BaseHz, 50, 800},
		{"auto-wah resonance", cfg.Resonance, 0.1, 10},
		{"auto-wah attack", cfg.AttackMs, 1, 100},
		{"auto-wah release", cfg.ReleaseMs, 10, 1000},
	} {
		if err := checkRange(c.what, c.v, c.lo, c.hi); err != nil {
			return nil, err
		}
	}

	env, err := envelope.New(cfg.AttackMs, cfg.ReleaseMs, sampleRate)
	if err != nil {
		return nil, err
	}

	return &AutoWah{
		cfg:        cfg,
		sampleRate: sampleRate,
		env:        env,
		filter:     biquad.NewSection(design.Bandpass(cfg.BaseHz, cfg.Resonance, sampleRate)),
	}, nil
}

// ProcessSample processes one sample.
func (w *AutoWah) ProcessSample(input float64) float64 {
	w.filter.SetCoefficients(design.Bandpass(w.Frequency(w.env.Next(math.Abs(input))), w.cfg.Resonance, w.sampleRate))
	return autoWahDry*input + autoWahWet*w.filter.ProcessSample(input)
}

// ProcessInPlace applies the wah to buf in place.
func (w *AutoWah) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = w.ProcessSample(x)
	}
	return nil
}

// Frequency maps an envelope level to the band-pass centre frequency.
func (w *AutoWah) Frequency(level float64) float64 {
	return w.cfg.BaseHz + min(level*w.cfg.Sensitivity, 1)*w.cfg.RangeHz
}

// Reset clears the envelope and filter state.
func (w *AutoWah) Reset() {
	w.env.Reset()
	w.filter.Reset()
}
