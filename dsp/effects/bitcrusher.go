package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultBitCrusherBitDepth   = 8.0
	defaultBitCrusherDownsample = 1.0
	defaultBitCrusherMix        = 1.0
	minBitCrusherBitDepth       = 1.0
	maxBitCrusherBitDepth       = 16.0
	maxBitCrusherDownsample     = 100
)

// BitCrusherDescriptor registers the bit crusher.
var BitCrusherDescriptor = Descriptor{
	Name:        "bitcrusher",
	Description: "Lo-fi bit depth and sample rate reduction",
	Params: []param.Spec{
		{Name: "bit_depth", Description: "Quantization resolution", Min: minBitCrusherBitDepth, Max: maxBitCrusherBitDepth, Default: defaultBitCrusherBitDepth, Unit: param.Bits},
		{Name: "sample_rate_reduction", Description: "Sample-and-hold factor", Min: 1, Max: maxBitCrusherDownsample, Default: defaultBitCrusherDownsample, Unit: param.Ratio, Integer: true},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultBitCrusherMix, Unit: param.Ratio},
	},
	New: func(p param.Set, f Format) (Effect, error) {
		return NewPerChannel("bitcrusher", f, func(int) (ChannelProcessor, error) {
			return NewBitCrusher(f.SampleRate,
				WithBitCrusherBitDepth(p.Float("bit_depth")),
				WithBitCrusherDownsample(p.Int("sample_rate_reduction")),
				WithBitCrusherMix(p.Float("mix")),
			)
		})
	},
}

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bitDepth   float64
	downsample int
	mix        float64
}

// WithBitCrusherBitDepth sets the quantization bit depth in [1, 16].
// Fractional values are allowed.
func WithBitCrusherBitDepth(bitDepth float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if bitDepth < minBitCrusherBitDepth || bitDepth > maxBitCrusherBitDepth || math.IsNaN(bitDepth) {
			return fmt.Errorf("bit crusher bit depth must be in [%g, %g]: %f",
				minBitCrusherBitDepth, maxBitCrusherBitDepth, bitDepth)
		}
		cfg.bitDepth = bitDepth
		return nil
	}
}

// WithBitCrusherDownsample sets the sample-and-hold factor in [1, 100].
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if factor < 1 || factor > maxBitCrusherDownsample {
			return fmt.Errorf("bit crusher downsample factor must be in [1, %d]: %d",
				maxBitCrusherDownsample, factor)
		}
		cfg.downsample = factor
		return nil
	}
}

// WithBitCrusherMix sets the dry/wet mix in [0, 1].
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("bit crusher mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// BitCrusher holds every input sample for a number of output samples and
// snaps it to a grid of 2^(bitDepth-1) steps per unit amplitude.
type BitCrusher struct {
	cfg         bitCrusherConfig
	quantLevels float64

	holdCounter int
	holdValue   float64
}

// NewBitCrusher creates a bit crusher for sampleRate.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bit crusher sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := bitCrusherConfig{
		bitDepth:   defaultBitCrusherBitDepth,
		downsample: int(defaultBitCrusherDownsample),
		mix:        defaultBitCrusherMix,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &BitCrusher{cfg: cfg, quantLevels: math.Exp2(cfg.bitDepth - 1)}, nil
}

// ProcessSample processes one sample.
func (bc *BitCrusher) ProcessSample(input float64) float64 {
	if bc.holdCounter == 0 {
		bc.holdValue = core.Clamp(math.Round(input*bc.quantLevels)/bc.quantLevels, -1, 1)
	}
	bc.holdCounter++
	if bc.holdCounter >= bc.cfg.downsample {
		bc.holdCounter = 0
	}

	return input*(1-bc.cfg.mix) + bc.holdValue*bc.cfg.mix
}

// ProcessInPlace applies the bit crusher to buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = bc.ProcessSample(x)
	}
	return nil
}

// Reset clears the sample-and-hold state.
func (bc *BitCrusher) Reset() {
	bc.holdCounter = 0
	bc.holdValue = 0
}

// BitDepth returns the quantization bit depth.
func (bc *BitCrusher) BitDepth() float64 { return bc.cfg.bitDepth }

// Downsample returns the sample-and-hold factor.
func (bc *BitCrusher) Downsample() int { return bc.cfg.downsample }
