package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/filter/biquad"
	"github.com/cwbudde/audiofx/dsp/filter/design"
)

const (
	// K-weighting stages of ITU-R BS.1770.
	kShelfFreq   = 1500.0
	kShelfGainDB = 4.0
	kHighpass    = 38.0

	blockSeconds   = 0.4
	blockOverlap   = 0.75
	absoluteGate   = -70.0
	relativeGate   = -10.0
	loudnessOffset = -0.691
)

var errNoChannels = errors.New("level: no channels")

// IntegratedLoudness returns the gated programme loudness of the channels in
// LUFS, following ITU-R BS.1770 with unit channel weights. Signals shorter
// than one 400 ms block are measured as a single block. Programmes that fall
// entirely below the absolute gate read Floor.
func IntegratedLoudness(channels [][]float64, sampleRate float64) (float64, error) {
	if len(channels) == 0 {
		return 0, errNoChannels
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("level: sample rate must be > 0: %v", sampleRate)
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != n {
			return 0, errors.New("level: channels differ in length")
		}
	}
	if n == 0 {
		return Floor, nil
	}

	weighted := make([][]float64, len(channels))
	for i, ch := range channels {
		weighted[i] = kWeight(ch, sampleRate)
	}

	block := min(max(int(math.Round(blockSeconds*sampleRate)), 1), n)
	step := max(int(math.Round(blockSeconds*(1-blockOverlap)*sampleRate)), 1)

	var powers []float64
	for start := 0; start+block <= n; start += step {
		p := 0.0
		for _, ch := range weighted {
			sum := 0.0
			for _, v := range ch[start : start+block] {
				sum += v * v
			}
			p += sum / float64(block)
		}
		powers = append(powers, p)
	}

	gated := gateMean(powers, absoluteGate)
	if gated == 0 {
		return Floor, nil
	}
	gated = gateMean(powers, powerLoudness(gated)+relativeGate)
	if gated == 0 {
		return Floor, nil
	}

	return max(powerLoudness(gated), Floor), nil
}

func kWeight(in []float64, sampleRate float64) []float64 {
	shelf := biquad.NewSection(design.HighShelf(kShelfFreq, kShelfGainDB, design.DefaultQ, sampleRate))
	hp := biquad.NewSection(design.Highpass(kHighpass, design.DefaultQ, sampleRate))

	out := make([]float64, len(in))
	shelf.ProcessBlockTo(out, in)
	hp.ProcessBlock(out)
	return out
}

// gateMean averages the block powers whose loudness exceeds threshold.
func gateMean(powers []float64, threshold float64) float64 {
	sum, count := 0.0, 0
	for _, p := range powers {
		if powerLoudness(p) > threshold {
			sum += p
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func powerLoudness(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return loudnessOffset + 10*math.Log10(p)
}
