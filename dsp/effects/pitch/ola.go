package pitch

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/audiofx/dsp/interp"
	"github.com/cwbudde/audiofx/dsp/window"
)

const (
	// FrameSize is the overlap-add frame length in samples.
	FrameSize = 2048
	// AnalysisHop is the input advance between frames.
	AnalysisHop = FrameSize / 4

	minWindowSum = 1e-6
)

// overlapAdd renders Hann-windowed frames into an output buffer.
type overlapAdd struct {
	win []float64
	seg []float64
}

func newOverlapAdd() (*overlapAdd, error) {
	win, err := window.Hann(FrameSize, window.WithPeriodic())
	if err != nil {
		return nil, err
	}
	return &overlapAdd{win: win, seg: make([]float64, FrameSize)}, nil
}

// render overlap-adds frames spaced synthHop apart into a buffer of outLen
// samples. fill writes the raw content of frame k given its analysis start.
// The first frame starts at -(FrameSize-AnalysisHop) so every output sample
// is covered by the same number of frames.
func (o *overlapAdd) render(outLen int, synthHop float64, fill func(analysisStart int, seg []float64)) ([]float64, error) {
	out := make([]float64, outLen)
	norm := make([]float64, outLen)
	lead := FrameSize - AnalysisHop

	for k := 0; ; k++ {
		start := int(math.Round(float64(k)*synthHop)) - lead
		if start >= outLen {
			break
		}

		fill(k*AnalysisHop-lead, o.seg)
		if err := window.ApplyCoefficientsInPlace(o.seg, o.win); err != nil {
			return nil, err
		}

		lo, hi := max(start, 0), min(start+FrameSize, outLen)
		if lo >= hi {
			continue
		}
		vecmath.AddBlockInPlace(out[lo:hi], o.seg[lo-start:hi-start])
		vecmath.AddBlockInPlace(norm[lo:hi], o.win[lo-start:hi-start])
	}

	for i, w := range norm {
		if w > minWindowSum {
			out[i] /= w
		} else {
			out[i] = 0
		}
	}
	return out, nil
}

// sampleAt reads in at a fractional position, treating samples outside the
// buffer as zero.
func sampleAt(in []float64, pos float64) float64 {
	i := int(math.Floor(pos))
	t := pos - float64(i)
	return interp.Linear2(t, at(in, i), at(in, i+1))
}

func at(in []float64, i int) float64 {
	if i < 0 || i >= len(in) {
		return 0
	}
	return in[i]
}

// mixInto writes (1-mix)*dry + mix*wet into wet. dry is read up to len(wet)
// and treated as zero beyond its end.
func mixInto(wet, dry []float64, mix float64) {
	if mix == 1 {
		return
	}
	vecmath.ScaleBlock(wet, wet, mix)
	n := min(len(wet), len(dry))
	scaled := make([]float64, n)
	vecmath.ScaleBlock(scaled, dry[:n], 1-mix)
	vecmath.AddBlockInPlace(wet[:n], scaled)
}
