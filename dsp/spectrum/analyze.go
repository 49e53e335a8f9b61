package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/audiofx/dsp/window"
)

const (
	// DefaultFFTSize is used when Analyze is called with size 0.
	DefaultFFTSize = 8192
	minFFTSize     = 16
)

var errNoSamples = errors.New("spectrum: no samples to analyze")

// Spectrum is a single-sided magnitude spectrum.
type Spectrum struct {
	// Magnitudes holds |X[k]| for k in [0, FFTSize/2], normalized so that a
	// full-scale sine on a bin centre reads ~1.
	Magnitudes []float64
	FFTSize    int
	SampleRate float64
	// Frames is the number of averaged analysis frames.
	Frames int
	Window window.Type
	// NoiseBandwidth is the window's equivalent noise bandwidth in Hz.
	NoiseBandwidth float64
}

// BinWidth returns the frequency spacing of adjacent bins in Hz.
func (s Spectrum) BinWidth() float64 {
	return s.SampleRate / float64(s.FFTSize)
}

// Frequency returns the centre frequency of bin k in Hz.
func (s Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinWidth()
}

// Peak returns the frequency and magnitude of the strongest non-DC bin,
// refined by parabolic interpolation on the log magnitudes.
func (s Spectrum) Peak() (freqHz, magnitude float64) {
	best := -1
	for k := 1; k < len(s.Magnitudes); k++ {
		if best < 0 || s.Magnitudes[k] > s.Magnitudes[best] {
			best = k
		}
	}
	if best < 0 || s.Magnitudes[best] == 0 {
		return 0, 0
	}

	offset := 0.0
	if best > 0 && best < len(s.Magnitudes)-1 {
		a := logMag(s.Magnitudes[best-1])
		b := logMag(s.Magnitudes[best])
		c := logMag(s.Magnitudes[best+1])
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}

	return (float64(best) + offset) * s.BinWidth(), s.Magnitudes[best]
}

// Option configures Analyze.
type Option func(*analyzeConfig) error

type analyzeConfig struct {
	window window.Type
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *analyzeConfig) error {
		if t < window.TypeRectangular || t > window.TypeBlackman {
			return fmt.Errorf("spectrum: unsupported window %d", t)
		}
		c.window = t
		return nil
	}
}

// Analyze computes the magnitude spectrum of samples averaged over
// half-overlapping frames of fftSize samples (Welch's method). Inputs
// shorter than one frame are analyzed as a single zero-padded frame; a tail
// shorter than the hop is ignored. fftSize must be a power of two; 0 selects
// DefaultFFTSize, shrunk to fit short inputs.
func Analyze(samples []float64, sampleRate float64, fftSize int, opts ...Option) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, errNoSamples
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Spectrum{}, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}
	if fftSize == 0 {
		fftSize = DefaultFFTSize
		for fftSize > minFFTSize && fftSize/2 >= len(samples) {
			fftSize /= 2
		}
	}
	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return Spectrum{}, fmt.Errorf("spectrum: fft size must be a power of two >= %d: %d", minFFTSize, fftSize)
	}

	cfg := analyzeConfig{window: window.TypeHann}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Spectrum{}, err
		}
	}

	n := min(len(samples), fftSize)
	win := window.Generate(cfg.window, n, window.WithPeriodic())
	gain, err := window.CoherentGain(win)
	if err != nil {
		return Spectrum{}, err
	}
	enbw, err := window.EquivalentNoiseBandwidth(win)
	if err != nil {
		return Spectrum{}, err
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	bins := fftSize/2 + 1
	frame := make([]float64, n)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	acc := make([]float64, bins)
	hop := max(1, n/2)
	frames := 0

	for start := 0; start+n <= len(samples); start += hop {
		copy(frame, samples[start:start+n])
		if err := window.ApplyCoefficientsInPlace(frame, win); err != nil {
			return Spectrum{}, err
		}
		for i, v := range frame {
			in[i] = complex(v, 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return Spectrum{}, fmt.Errorf("spectrum forward fft: %w", err)
		}
		vecmath.AddBlockInPlace(acc, Power(out[:bins]))
		frames++
	}

	scale := 0.0
	if gain > 0 {
		scale = 2 / (float64(n) * gain)
	}
	mags := make([]float64, bins)
	for k, p := range acc {
		mags[k] = math.Sqrt(p/float64(frames)) * scale
	}

	return Spectrum{
		Magnitudes:     mags,
		FFTSize:        fftSize,
		SampleRate:     sampleRate,
		Frames:         frames,
		Window:         cfg.window,
		NoiseBandwidth: enbw * sampleRate / float64(n),
	}, nil
}

// PeakFrequency returns the dominant frequency of samples in Hz.
func PeakFrequency(samples []float64, sampleRate float64) (float64, error) {
	s, err := Analyze(samples, sampleRate, 0)
	if err != nil {
		return 0, err
	}
	f, _ := s.Peak()
	return f, nil
}

func logMag(v float64) float64 {
	return math.Log(math.Max(v, 1e-300))
}
