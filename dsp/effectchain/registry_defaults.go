package effectchain

import (
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/effects/dynamics"
	"github.com/cwbudde/audiofx/dsp/effects/modulation"
	"github.com/cwbudde/audiofx/dsp/effects/pitch"
	"github.com/cwbudde/audiofx/dsp/effects/reverb"
)

// DefaultRegistry returns a Registry pre-populated with all built-in effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, d := range []effects.Descriptor{
		effects.DelayDescriptor,
		effects.DistortionDescriptor,
		effects.EQDescriptor,
		effects.BitCrusherDescriptor,
		modulation.ChorusDescriptor,
		modulation.FlangerDescriptor,
		modulation.VibratoDescriptor,
		modulation.PhaserDescriptor,
		modulation.TremoloDescriptor,
		modulation.AutoWahDescriptor,
		dynamics.GateDescriptor,
		dynamics.CompressorDescriptor,
		dynamics.LimiterDescriptor,
		reverb.Descriptor,
		pitch.ShifterDescriptor,
		pitch.StretcherDescriptor,
	} {
		r.MustRegister(d)
	}

	return r
}
