package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	minRatio = 0.25
	maxRatio = 4.0
)

// ShifterDescriptor registers the pitch shifter.
var ShifterDescriptor = effects.Descriptor{
	Name:        "pitch_shift",
	Description: "Basic overlap-add pitch shift that keeps duration",
	Params: []param.Spec{
		{Name: "pitch", Description: "Pitch ratio (2 = octave up)", Min: minRatio, Max: maxRatio, Default: 1, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: 1, Unit: param.Ratio},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannelTransform("pitch_shift", f, func(int) (effects.ChannelTransformer, error) {
			return NewPitchShifter(p.Float("pitch"), p.Float("mix"))
		})
	},
}

// PitchShifter shifts pitch by resampling every frame about its centre and
// overlap-adding the frames at their original positions.
//
//	frame[i] = x(start + c + (i-c)*ratio),  c = FrameSize/2
type PitchShifter struct {
	ratio float64
	mix   float64
	ola   *overlapAdd
}

// NewPitchShifter creates a pitch shifter with ratio in [0.25, 4] and
// wet amount in [0, 1].
func NewPitchShifter(ratio, mix float64) (*PitchShifter, error) {
	if ratio < minRatio || ratio > maxRatio || math.IsNaN(ratio) {
		return nil, fmt.Errorf("pitch ratio must be in [%g, %g]: %f", minRatio, maxRatio, ratio)
	}
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return nil, fmt.Errorf("pitch shift mix must be in [0, 1]: %f", mix)
	}
	ola, err := newOverlapAdd()
	if err != nil {
		return nil, err
	}
	return &PitchShifter{ratio: ratio, mix: mix, ola: ola}, nil
}

// Ratio returns the pitch ratio.
func (p *PitchShifter) Ratio() float64 { return p.ratio }

// Transform returns the pitch-shifted signal. The output has the same length
// as in.
func (p *PitchShifter) Transform(in []float64) ([]float64, error) {
	const center = FrameSize / 2

	out, err := p.ola.render(len(in), AnalysisHop, func(start int, seg []float64) {
		for i := range seg {
			seg[i] = sampleAt(in, float64(start+center)+float64(i-center)*p.ratio)
		}
	})
	if err != nil {
		return nil, err
	}
	mixInto(out, in, p.mix)
	return out, nil
}
