package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultDistortionGain      = 2.0
	defaultDistortionThreshold = 0.7
	defaultDistortionMix       = 1.0
	defaultDistortionOutput    = 0.8

	minDistortionGain      = 0.1
	maxDistortionGain      = 10.0
	minDistortionThreshold = 0.1
	minDistortionOutput    = 0.1
)

// DistortionMode selects the transfer curve used by Distortion.
type DistortionMode int

const (
	// DistortionModeSoftClip applies tanh.
	DistortionModeSoftClip DistortionMode = iota
	// DistortionModeHardClip clamps to ±threshold.
	DistortionModeHardClip
	// DistortionModeOverdrive passes the signal below threshold and
	// compresses the excess above it.
	DistortionModeOverdrive
	// DistortionModeFuzz saturates to ±1 beyond threshold.
	DistortionModeFuzz
)

var distortionModeNames = []string{"soft", "hard", "overdrive", "fuzz"}

// String returns the mode name.
func (m DistortionMode) String() string {
	if m < 0 || int(m) >= len(distortionModeNames) {
		return "unknown"
	}
	return distortionModeNames[m]
}

// DistortionDescriptor registers the waveshaping distortion.
var DistortionDescriptor = Descriptor{
	Name:        "distortion",
	Description: "Waveshaping distortion with soft, hard, overdrive and fuzz curves",
	Params: []param.Spec{
		{Name: "gain", Description: "Input drive", Min: minDistortionGain, Max: maxDistortionGain, Default: defaultDistortionGain, Unit: param.Ratio},
		{Name: "threshold", Description: "Clipping threshold", Min: minDistortionThreshold, Max: 1, Default: defaultDistortionThreshold, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultDistortionMix, Unit: param.Ratio},
		{Name: "output", Description: "Output level", Min: minDistortionOutput, Max: 1, Default: defaultDistortionOutput, Unit: param.Ratio},
		{Name: "type", Description: "Transfer curve", Min: 0, Max: 3, Default: 0, Unit: param.Selector, Choices: distortionModeNames},
	},
	New: func(p param.Set, f Format) (Effect, error) {
		return NewPerChannel("distortion", f, func(int) (ChannelProcessor, error) {
			return NewDistortion(
				WithDistortionMode(DistortionMode(p.Int("type"))),
				WithDistortionGain(p.Float("gain")),
				WithDistortionThreshold(p.Float("threshold")),
				WithDistortionMix(p.Float("mix")),
				WithDistortionOutput(p.Float("output")),
			)
		})
	},
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	mode      DistortionMode
	gain      float64
	threshold float64
	mix       float64
	output    float64
}

// WithDistortionMode selects the transfer curve.
func WithDistortionMode(mode DistortionMode) DistortionOption {
	return func(cfg *distortionConfig) error {
		if mode < DistortionModeSoftClip || mode > DistortionModeFuzz {
			return fmt.Errorf("distortion mode is invalid: %d", mode)
		}
		cfg.mode = mode
		return nil
	}
}

// WithDistortionGain sets the input drive in [0.1, 10].
func WithDistortionGain(gain float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if gain < minDistortionGain || gain > maxDistortionGain || math.IsNaN(gain) {
			return fmt.Errorf("distortion gain must be in [%g, %g]: %f", minDistortionGain, maxDistortionGain, gain)
		}
		cfg.gain = gain
		return nil
	}
}

// WithDistortionThreshold sets the clipping threshold in [0.1, 1].
func WithDistortionThreshold(threshold float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if threshold < minDistortionThreshold || threshold > 1 || math.IsNaN(threshold) {
			return fmt.Errorf("distortion threshold must be in [%g, 1]: %f", minDistortionThreshold, threshold)
		}
		cfg.threshold = threshold
		return nil
	}
}

// WithDistortionMix sets the wet amount in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("distortion mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// WithDistortionOutput sets the output level in [0.1, 1].
func WithDistortionOutput(level float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if level < minDistortionOutput || level > 1 || math.IsNaN(level) {
			return fmt.Errorf("distortion output level must be in [%g, 1]: %f", minDistortionOutput, level)
		}
		cfg.output = level
		return nil
	}
}

// Distortion is a memoryless waveshaper:
//
//	y = clamp(((1-mix)*x + mix*curve(gain*x)) * output, -1, 1)
type Distortion struct {
	cfg distortionConfig
}

// NewDistortion creates a distortion with the original defaults.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := distortionConfig{
		mode:      DistortionModeSoftClip,
		gain:      defaultDistortionGain,
		threshold: defaultDistortionThreshold,
		mix:       defaultDistortionMix,
		output:    defaultDistortionOutput,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Distortion{cfg: cfg}, nil
}

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(input float64) float64 {
	wet := d.shape(input * d.cfg.gain)
	mixed := input*(1-d.cfg.mix) + wet*d.cfg.mix
	return core.Clamp(mixed*d.cfg.output, -1, 1)
}

// ProcessInPlace applies distortion to buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = d.ProcessSample(x)
	}
	return nil
}

// Mode returns the transfer curve.
func (d *Distortion) Mode() DistortionMode { return d.cfg.mode }

func (d *Distortion) shape(x float64) float64 {
	thr := d.cfg.threshold
	switch d.cfg.mode {
	case DistortionModeHardClip:
		return core.Clamp(x, -thr, thr)
	case DistortionModeOverdrive:
		a := math.Abs(x)
		if a < thr {
			return x
		}
		excess := a - thr
		return math.Copysign(thr+excess/(1+2*excess), x)
	case DistortionModeFuzz:
		g := 2 * x
		switch {
		case g > thr:
			return 1
		case g < -thr:
			return -1
		default:
			return g / thr
		}
	default:
		return math.Tanh(x)
	}
}
