package modulation

import (
	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultVibratoRateHz  = 5.0
	defaultVibratoDepthMs = 5.0

	minVibratoRateHz  = 0.1
	maxVibratoRateHz  = 20.0
	minVibratoDepthMs = 0.1
	maxVibratoDepthMs = 20.0
)

// VibratoDescriptor registers the vibrato.
var VibratoDescriptor = effects.Descriptor{
	Name:        "vibrato",
	Description: "Periodic pitch wobble from a fully wet modulated delay",
	Params: []param.Spec{
		{Name: "rate", Description: "Vibrato rate", Min: minVibratoRateHz, Max: maxVibratoRateHz, Default: defaultVibratoRateHz, Unit: param.Hertz},
		{Name: "depth", Description: "Modulation depth", Min: minVibratoDepthMs, Max: maxVibratoDepthMs, Default: defaultVibratoDepthMs, Unit: param.Milliseconds},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("vibrato", f, func(int) (effects.ChannelProcessor, error) {
			return NewVibrato(f.SampleRate, p.Float("rate"), p.Float("depth"))
		})
	},
}

// Vibrato outputs only the delayed signal, with delay
//
//	d = depth * (1 + lfo/2)
type Vibrato struct {
	depthSamples float64
	osc          *lfo.LFO
	line         *modulatedDelay
}

// NewVibrato creates a vibrato with rate in [0.1, 20] Hz and depth in
// [0.1, 20] ms.
func NewVibrato(sampleRate, rateHz, depthMs float64) (*Vibrato, error) {
	if err := checkSampleRate("vibrato", sampleRate); err != nil {
		return nil, err
	}
	if err := checkRange("vibrato rate", rateHz, minVibratoRateHz, maxVibratoRateHz); err != nil {
		return nil, err
	}
	if err := checkRange("vibrato depth", depthMs, minVibratoDepthMs, maxVibratoDepthMs); err != nil {
		return nil, err
	}

	v := &Vibrato{depthSamples: core.MsToSamples(depthMs, sampleRate)}

	var err error
	if v.osc, err = lfo.New(rateHz, sampleRate, lfo.Sine); err != nil {
		return nil, err
	}
	if v.line, err = newModulatedDelay(1.5*v.depthSamples, 0); err != nil {
		return nil, err
	}
	return v, nil
}

// ProcessSample processes one sample.
func (v *Vibrato) ProcessSample(input float64) (float64, error) {
	return v.line.process(input, v.depthSamples*(1+0.5*v.osc.Next()))
}

// ProcessInPlace applies vibrato to buf in place.
func (v *Vibrato) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		y, err := v.ProcessSample(x)
		if err != nil {
			return err
		}
		buf[i] = y
	}
	return nil
}

// Reset clears delay state and restarts the LFO.
func (v *Vibrato) Reset() {
	v.line.reset()
	v.osc.Reset()
}
