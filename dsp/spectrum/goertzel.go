package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates a single DFT term over all samples processed since the
// last Reset.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates an analyzer for frequency in [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	for _, x := range input {
		s0, s1 = x+g.coeff*s0-s1, s0
	}
	g.s0, g.s1 = s0, s1
}

// Power returns |X[k]|^2 for the processed block.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// Amplitude returns the peak amplitude of a sinusoid at the target frequency
// in a block of n samples.
func Amplitude(input []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	if len(input) == 0 {
		return 0, errNoSamples
	}
	g.ProcessBlock(input)

	p := g.Power()
	if p <= 0 {
		return 0, nil
	}
	return 2 * math.Sqrt(p) / float64(len(input)), nil
}

// OctaveBands are the centre frequencies reported by BandLevels.
var OctaveBands = []float64{63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// BandLevels returns the sinusoidal amplitude in dBFS at each band centre
// below Nyquist. Silent bands read -120 dB.
func BandLevels(input []float64, sampleRate float64, bands []float64) (map[float64]float64, error) {
	levels := make(map[float64]float64, len(bands))
	for _, f := range bands {
		if f > sampleRate/2 {
			continue
		}
		amp, err := Amplitude(input, f, sampleRate)
		if err != nil {
			return nil, err
		}
		levels[f] = math.Max(20*math.Log10(math.Max(amp, 1e-12)), -120)
	}
	return levels, nil
}
