package dynamics

import (
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/envelope"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultGateThreshold = 0.1
	defaultGateAttackMs  = 1.0
	defaultGateHoldMs    = 10.0
	defaultGateReleaseMs = 100.0
	defaultGateRatio     = 1.0

	minGateThreshold = 0.001
	minGateAttackMs  = 0.1
	maxGateAttackMs  = 100.0
	maxGateHoldMs    = 1000.0
	minGateReleaseMs = 1.0
	maxGateReleaseMs = 5000.0
)

// GateDescriptor registers the noise gate.
var GateDescriptor = effects.Descriptor{
	Name:        "gate",
	Description: "Noise gate that attenuates signal below a threshold",
	Params: []param.Spec{
		{Name: "threshold", Description: "Open level", Min: minGateThreshold, Max: 1, Default: defaultGateThreshold, Unit: param.Ratio},
		{Name: "attack", Description: "Opening time", Min: minGateAttackMs, Max: maxGateAttackMs, Default: defaultGateAttackMs, Unit: param.Milliseconds},
		{Name: "hold", Description: "Time held open after the level drops", Min: 0, Max: maxGateHoldMs, Default: defaultGateHoldMs, Unit: param.Milliseconds},
		{Name: "release", Description: "Closing time", Min: minGateReleaseMs, Max: maxGateReleaseMs, Default: defaultGateReleaseMs, Unit: param.Milliseconds},
		{Name: "ratio", Description: "Attenuation when closed (1 = silence)", Min: 0, Max: 1, Default: defaultGateRatio, Unit: param.Ratio},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("gate", f, func(int) (effects.ChannelProcessor, error) {
			g, err := NewGate(f.SampleRate)
			if err != nil {
				return nil, err
			}
			for _, set := range []func() error{
				func() error { return g.SetThreshold(p.Float("threshold")) },
				func() error { return g.SetAttack(p.Float("attack")) },
				func() error { return g.SetHold(p.Float("hold")) },
				func() error { return g.SetRelease(p.Float("release")) },
				func() error { return g.SetRatio(p.Float("ratio")) },
			} {
				if err := set(); err != nil {
					return nil, err
				}
			}
			return g, nil
		})
	},
}

// Gate attenuates the signal by ratio once the detected level has stayed
// below threshold for the hold time. Ratio 1 closes to silence, ratio 0
// never attenuates.
//
// The gate starts open. Gain changes are smoothed: opening follows the
// attack time, closing follows the release time.
type Gate struct {
	threshold float64
	attackMs  float64
	holdMs    float64
	releaseMs float64
	ratio     float64

	sampleRate  float64
	holdSamples int

	detector    *envelope.Follower
	attenuation *envelope.Follower
	open        bool
	holdCounter int

	metrics Metrics
}

// NewGate creates a gate with default settings.
func NewGate(sampleRate float64) (*Gate, error) {
	if err := validateSampleRate("gate", sampleRate); err != nil {
		return nil, err
	}

	g := &Gate{
		threshold:  defaultGateThreshold,
		attackMs:   defaultGateAttackMs,
		holdMs:     defaultGateHoldMs,
		releaseMs:  defaultGateReleaseMs,
		ratio:      defaultGateRatio,
		sampleRate: sampleRate,
	}
	if err := g.update(); err != nil {
		return nil, err
	}
	return g, nil
}

// SetThreshold sets the open level in [0.001, 1].
func (g *Gate) SetThreshold(threshold float64) error {
	if err := validateRange("gate threshold", threshold, minGateThreshold, 1); err != nil {
		return err
	}
	g.threshold = threshold
	return nil
}

// SetAttack sets the opening time in milliseconds.
func (g *Gate) SetAttack(ms float64) error {
	if err := validateRange("gate attack", ms, minGateAttackMs, maxGateAttackMs); err != nil {
		return err
	}
	g.attackMs = ms
	return g.update()
}

// SetHold sets the hold time in milliseconds.
func (g *Gate) SetHold(ms float64) error {
	if err := validateRange("gate hold", ms, 0, maxGateHoldMs); err != nil {
		return err
	}
	g.holdMs = ms
	return g.update()
}

// SetRelease sets the closing time in milliseconds.
func (g *Gate) SetRelease(ms float64) error {
	if err := validateRange("gate release", ms, minGateReleaseMs, maxGateReleaseMs); err != nil {
		return err
	}
	g.releaseMs = ms
	return g.update()
}

// SetRatio sets the closed-state attenuation in [0, 1].
func (g *Gate) SetRatio(ratio float64) error {
	if err := validateRange("gate ratio", ratio, 0, 1); err != nil {
		return err
	}
	g.ratio = ratio
	return nil
}

// Threshold returns the open level.
func (g *Gate) Threshold() float64 { return g.threshold }

// Ratio returns the closed-state attenuation.
func (g *Gate) Ratio() float64 { return g.ratio }

// Hold returns the hold time in milliseconds.
func (g *Gate) Hold() float64 { return g.holdMs }

// IsOpen reports whether the gate is currently open.
func (g *Gate) IsOpen() bool { return g.open }

// ProcessSample processes one sample.
func (g *Gate) ProcessSample(input float64) float64 {
	level := math.Abs(input)

	if g.detector.Next(level) > g.threshold {
		g.open = true
		g.holdCounter = g.holdSamples
	} else if g.open {
		if g.holdCounter > 0 {
			g.holdCounter--
		} else {
			g.open = false
		}
	}

	target := 0.0
	if !g.open {
		target = g.ratio
	}
	gain := 1 - g.attenuation.Next(target)

	output := core.Clamp(input*gain, -1, 1)
	g.metrics.update(level, math.Abs(output), gain)
	return output
}

// ProcessInPlace gates buf in place.
func (g *Gate) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = g.ProcessSample(x)
	}
	return nil
}

// Reset reopens the gate and clears detector state and metrics.
func (g *Gate) Reset() {
	g.detector.Reset()
	g.attenuation.Reset()
	g.open = true
	g.holdCounter = g.holdSamples
	g.metrics = newMetrics()
}

// GetMetrics returns current metering values.
func (g *Gate) GetMetrics() Metrics { return g.metrics }

// ResetMetrics clears metering state.
func (g *Gate) ResetMetrics() { g.metrics = newMetrics() }

func (g *Gate) update() error {
	detector, err := envelope.New(g.attackMs, g.releaseMs, g.sampleRate)
	if err != nil {
		return err
	}
	// Attenuation rises while closing and falls while opening.
	attenuation, err := envelope.New(g.releaseMs, g.attackMs, g.sampleRate)
	if err != nil {
		return err
	}

	g.detector = detector
	g.attenuation = attenuation
	g.holdSamples = int(math.Round(core.MsToSamples(g.holdMs, g.sampleRate)))
	g.Reset()
	return nil
}
