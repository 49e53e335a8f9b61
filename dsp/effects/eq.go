package effects

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/filter/biquad"
	"github.com/cwbudde/audiofx/dsp/filter/design"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultEQLowFreq  = 300.0
	defaultEQHighFreq = 3000.0
	maxEQGainDB       = 12.0
	minEQLowFreq      = 100.0
	maxEQLowFreq      = 1000.0
	minEQHighFreq     = 1000.0
	maxEQHighFreq     = 8000.0
)

// EQDescriptor registers the three-band equalizer.
var EQDescriptor = Descriptor{
	Name:        "eq",
	Description: "Three-band equalizer with adjustable crossovers",
	Params: []param.Spec{
		{Name: "low_gain", Description: "Low band gain", Min: -maxEQGainDB, Max: maxEQGainDB, Default: 0, Unit: param.Decibels},
		{Name: "mid_gain", Description: "Mid band gain", Min: -maxEQGainDB, Max: maxEQGainDB, Default: 0, Unit: param.Decibels},
		{Name: "high_gain", Description: "High band gain", Min: -maxEQGainDB, Max: maxEQGainDB, Default: 0, Unit: param.Decibels},
		{Name: "low_freq", Description: "Low/mid crossover", Min: minEQLowFreq, Max: maxEQLowFreq, Default: defaultEQLowFreq, Unit: param.Hertz},
		{Name: "high_freq", Description: "Mid/high crossover", Min: minEQHighFreq, Max: maxEQHighFreq, Default: defaultEQHighFreq, Unit: param.Hertz},
	},
	New: func(p param.Set, f Format) (Effect, error) {
		return NewPerChannel("eq", f, func(int) (ChannelProcessor, error) {
			return NewEQ(f.SampleRate,
				WithEQGains(p.Float("low_gain"), p.Float("mid_gain"), p.Float("high_gain")),
				WithEQCrossovers(p.Float("low_freq"), p.Float("high_freq")),
			)
		})
	},
}

// EQOption mutates equalizer construction parameters.
type EQOption func(*eqConfig) error

type eqConfig struct {
	lowGainDB, midGainDB, highGainDB float64
	lowFreq, highFreq                float64
}

// WithEQGains sets the band gains in dB, each in [-12, 12].
func WithEQGains(lowDB, midDB, highDB float64) EQOption {
	return func(cfg *eqConfig) error {
		for _, g := range []float64{lowDB, midDB, highDB} {
			if g < -maxEQGainDB || g > maxEQGainDB || math.IsNaN(g) {
				return fmt.Errorf("eq gain must be in [%g, %g] dB: %f", -maxEQGainDB, maxEQGainDB, g)
			}
		}
		cfg.lowGainDB, cfg.midGainDB, cfg.highGainDB = lowDB, midDB, highDB
		return nil
	}
}

// WithEQCrossovers sets the low/mid and mid/high crossover frequencies.
func WithEQCrossovers(lowHz, highHz float64) EQOption {
	return func(cfg *eqConfig) error {
		if lowHz < minEQLowFreq || lowHz > maxEQLowFreq || math.IsNaN(lowHz) {
			return fmt.Errorf("eq low crossover must be in [%g, %g] Hz: %f", minEQLowFreq, maxEQLowFreq, lowHz)
		}
		if highHz < minEQHighFreq || highHz > maxEQHighFreq || math.IsNaN(highHz) {
			return fmt.Errorf("eq high crossover must be in [%g, %g] Hz: %f", minEQHighFreq, maxEQHighFreq, highHz)
		}
		cfg.lowFreq, cfg.highFreq = lowHz, highHz
		return nil
	}
}

// EQ splits the signal with a low-pass at the low crossover and a high-pass
// at the high crossover. The mid band is whatever remains, so unity gains
// reconstruct the input exactly.
type EQ struct {
	cfg                        eqConfig
	sampleRate                 float64
	lowGain, midGain, highGain float64
	low, high                  *biquad.Section
}

// NewEQ creates a flat equalizer with crossovers at 300 Hz and 3 kHz.
func NewEQ(sampleRate float64, opts ...EQOption) (*EQ, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("eq sample rate must be > 0: %f", sampleRate)
	}

	cfg := eqConfig{lowFreq: defaultEQLowFreq, highFreq: defaultEQHighFreq}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &EQ{
		cfg:        cfg,
		sampleRate: sampleRate,
		lowGain:    core.DBToLinear(cfg.lowGainDB),
		midGain:    core.DBToLinear(cfg.midGainDB),
		highGain:   core.DBToLinear(cfg.highGainDB),
		low:        biquad.NewSection(design.Lowpass(cfg.lowFreq, design.DefaultQ, sampleRate)),
		high:       biquad.NewSection(design.Highpass(cfg.highFreq, design.DefaultQ, sampleRate)),
	}, nil
}

// ProcessSample processes one sample.
func (e *EQ) ProcessSample(input float64) float64 {
	low := e.low.ProcessSample(input)
	high := e.high.ProcessSample(input)
	mid := input - low - high
	return core.Clamp(low*e.lowGain+mid*e.midGain+high*e.highGain, -1, 1)
}

// ProcessInPlace equalizes buf in place.
func (e *EQ) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = e.ProcessSample(x)
	}
	return nil
}

// ResponseDB returns the magnitude response of the band mix at freqHz,
// ignoring the output clamp.
func (e *EQ) ResponseDB(freqHz float64) float64 {
	lo := e.low.Response(freqHz, e.sampleRate)
	hi := e.high.Response(freqHz, e.sampleRate)
	h := complex(e.lowGain, 0)*lo + complex(e.midGain, 0)*(1-lo-hi) + complex(e.highGain, 0)*hi
	return 20 * math.Log10(cmplx.Abs(h))
}

// Reset clears both crossover filters.
func (e *EQ) Reset() {
	e.low.Reset()
	e.high.Reset()
}
