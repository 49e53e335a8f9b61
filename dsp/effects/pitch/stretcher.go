package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/param"
)

// StretcherDescriptor registers the time stretcher.
var StretcherDescriptor = effects.Descriptor{
	Name:        "time_stretch",
	Description: "Basic overlap-add time stretch that keeps pitch",
	Params: []param.Spec{
		{Name: "stretch", Description: "Duration ratio (2 = twice as long)", Min: minRatio, Max: maxRatio, Default: 1, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: 1, Unit: param.Ratio},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannelTransform("time_stretch", f, func(int) (effects.ChannelTransformer, error) {
			return NewTimeStretcher(p.Float("stretch"), p.Float("mix"))
		})
	},
}

// TimeStretcher changes duration by placing unmodified frames at a synthesis
// hop of AnalysisHop*stretch.
type TimeStretcher struct {
	stretch float64
	mix     float64
	ola     *overlapAdd
}

// NewTimeStretcher creates a time stretcher with stretch in [0.25, 4] and
// wet amount in [0, 1].
func NewTimeStretcher(stretch, mix float64) (*TimeStretcher, error) {
	if stretch < minRatio || stretch > maxRatio || math.IsNaN(stretch) {
		return nil, fmt.Errorf("stretch ratio must be in [%g, %g]: %f", minRatio, maxRatio, stretch)
	}
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return nil, fmt.Errorf("time stretch mix must be in [0, 1]: %f", mix)
	}
	ola, err := newOverlapAdd()
	if err != nil {
		return nil, err
	}
	return &TimeStretcher{stretch: stretch, mix: mix, ola: ola}, nil
}

// Stretch returns the duration ratio.
func (s *TimeStretcher) Stretch() float64 { return s.stretch }

// OutputLength returns round(n*stretch).
func (s *TimeStretcher) OutputLength(n int) int {
	return int(math.Round(float64(n) * s.stretch))
}

// Transform returns the stretched signal of OutputLength(len(in)) samples.
// The dry path is the unstretched input, zero-padded or truncated to the
// output length.
func (s *TimeStretcher) Transform(in []float64) ([]float64, error) {
	out, err := s.ola.render(s.OutputLength(len(in)), AnalysisHop*s.stretch, func(start int, seg []float64) {
		for i := range seg {
			seg[i] = at(in, start+i)
		}
	})
	if err != nil {
		return nil, err
	}
	mixInto(out, in, s.mix)
	return out, nil
}
