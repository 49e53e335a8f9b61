package dynamics

import (
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/envelope"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultCompressorThreshold = 0.5
	defaultCompressorRatio     = 4.0
	defaultCompressorAttackMs  = 10.0
	defaultCompressorReleaseMs = 100.0
	defaultCompressorMakeup    = 1.0

	minCompressorRatio     = 1.0
	maxCompressorRatio     = 20.0
	minCompressorAttackMs  = 0.1
	maxCompressorAttackMs  = 100.0
	minCompressorReleaseMs = 10.0
	maxCompressorReleaseMs = 1000.0
	minCompressorMakeup    = 0.1
	maxCompressorMakeup    = 4.0

	// minCompressorThreshold keeps the dB computation finite at threshold 0.
	minCompressorThreshold = 1e-6
)

// CompressorDescriptor registers the compressor.
var CompressorDescriptor = effects.Descriptor{
	Name:        "compressor",
	Description: "Downward compressor with makeup gain",
	Params: []param.Spec{
		{Name: "threshold", Description: "Level above which gain is reduced", Min: 0, Max: 1, Default: defaultCompressorThreshold, Unit: param.Ratio},
		{Name: "ratio", Description: "Compression ratio", Min: minCompressorRatio, Max: maxCompressorRatio, Default: defaultCompressorRatio, Unit: param.Ratio},
		{Name: "attack", Description: "Detector attack", Min: minCompressorAttackMs, Max: maxCompressorAttackMs, Default: defaultCompressorAttackMs, Unit: param.Milliseconds},
		{Name: "release", Description: "Detector release", Min: minCompressorReleaseMs, Max: maxCompressorReleaseMs, Default: defaultCompressorReleaseMs, Unit: param.Milliseconds},
		{Name: "makeup", Description: "Linear makeup gain", Min: minCompressorMakeup, Max: maxCompressorMakeup, Default: defaultCompressorMakeup, Unit: param.Ratio},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("compressor", f, func(int) (effects.ChannelProcessor, error) {
			c, err := NewCompressor(f.SampleRate)
			if err != nil {
				return nil, err
			}
			if err := c.SetThreshold(p.Float("threshold")); err != nil {
				return nil, err
			}
			if err := c.SetRatio(p.Float("ratio")); err != nil {
				return nil, err
			}
			if err := c.SetTimes(p.Float("attack"), p.Float("release")); err != nil {
				return nil, err
			}
			if err := c.SetMakeup(p.Float("makeup")); err != nil {
				return nil, err
			}
			return c, nil
		})
	},
}

// Compressor reduces the level of samples whose detected envelope exceeds
// the threshold. With overshoot o = 20*log10(env/threshold) the applied
// gain is
//
//	-(1 - 1/ratio) * o  dB
//
// followed by linear makeup gain and a [-1, 1] clamp.
type Compressor struct {
	threshold float64
	ratio     float64
	attackMs  float64
	releaseMs float64
	makeup    float64

	sampleRate float64
	detector   *envelope.Follower

	metrics Metrics
}

// NewCompressor creates a compressor with default settings.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if err := validateSampleRate("compressor", sampleRate); err != nil {
		return nil, err
	}

	c := &Compressor{
		threshold:  defaultCompressorThreshold,
		ratio:      defaultCompressorRatio,
		makeup:     defaultCompressorMakeup,
		sampleRate: sampleRate,
		metrics:    newMetrics(),
	}
	if err := c.SetTimes(defaultCompressorAttackMs, defaultCompressorReleaseMs); err != nil {
		return nil, err
	}
	return c, nil
}

// SetThreshold sets the linear threshold in [0, 1]. Values below 1e-6 are
// treated as 1e-6.
func (c *Compressor) SetThreshold(threshold float64) error {
	if err := validateRange("compressor threshold", threshold, 0, 1); err != nil {
		return err
	}
	c.threshold = max(threshold, minCompressorThreshold)
	return nil
}

// SetRatio sets the compression ratio in [1, 20].
func (c *Compressor) SetRatio(ratio float64) error {
	if err := validateRange("compressor ratio", ratio, minCompressorRatio, maxCompressorRatio); err != nil {
		return err
	}
	c.ratio = ratio
	return nil
}

// SetTimes sets detector attack and release in milliseconds.
func (c *Compressor) SetTimes(attackMs, releaseMs float64) error {
	if err := validateRange("compressor attack", attackMs, minCompressorAttackMs, maxCompressorAttackMs); err != nil {
		return err
	}
	if err := validateRange("compressor release", releaseMs, minCompressorReleaseMs, maxCompressorReleaseMs); err != nil {
		return err
	}
	detector, err := envelope.New(attackMs, releaseMs, c.sampleRate)
	if err != nil {
		return err
	}
	c.attackMs, c.releaseMs = attackMs, releaseMs
	c.detector = detector
	return nil
}

// SetMakeup sets the linear makeup gain in [0.1, 4].
func (c *Compressor) SetMakeup(gain float64) error {
	if err := validateRange("compressor makeup", gain, minCompressorMakeup, maxCompressorMakeup); err != nil {
		return err
	}
	c.makeup = gain
	return nil
}

// Threshold returns the linear threshold.
func (c *Compressor) Threshold() float64 { return c.threshold }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// GainFor returns the static gain applied at envelope level env, before
// makeup.
func (c *Compressor) GainFor(env float64) float64 {
	if c.ratio == 1 || env <= c.threshold {
		return 1
	}
	overDB := core.LinearToDB(env / c.threshold)
	return core.DBToLinear(-(1 - 1/c.ratio) * overDB)
}

// ProcessSample processes one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	level := math.Abs(input)
	gain := c.GainFor(c.detector.Next(level))

	output := core.Clamp(input*gain*c.makeup, -1, 1)
	c.metrics.update(level, math.Abs(output), gain)
	return output
}

// ProcessInPlace compresses buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
	return nil
}

// Reset clears detector state and metrics.
func (c *Compressor) Reset() {
	c.detector.Reset()
	c.metrics = newMetrics()
}

// GetMetrics returns current metering values.
func (c *Compressor) GetMetrics() Metrics { return c.metrics }
