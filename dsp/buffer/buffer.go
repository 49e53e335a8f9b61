package buffer

import (
	"errors"
	"fmt"
	"math"
)

// MaxChannels is the largest channel count a SampleBuffer may carry.
const MaxChannels = 2

var (
	// ErrInvalidFormat is returned when a buffer violates its layout invariants.
	ErrInvalidFormat = errors.New("invalid sample buffer")
)

// SampleBuffer is a planar multi-channel block of normalized samples.
type SampleBuffer struct {
	// Channels holds one slice per channel; all slices have equal length.
	Channels [][]float64
	// SampleRate is the sampling frequency in Hz.
	SampleRate float64
}

// New returns a zero-filled buffer with the given channel count and frame
// count.
func New(channels, frames int, sampleRate float64) (*SampleBuffer, error) {
	if err := validateShape(channels, sampleRate); err != nil {
		return nil, err
	}
	if frames < 0 {
		return nil, fmt.Errorf("%w: frame count must be >= 0: %d", ErrInvalidFormat, frames)
	}

	b := &SampleBuffer{
		Channels:   make([][]float64, channels),
		SampleRate: sampleRate,
	}
	for ch := range b.Channels {
		b.Channels[ch] = make([]float64, frames)
	}

	return b, nil
}

// FromChannels wraps existing planar slices without copying.
func FromChannels(sampleRate float64, channels ...[]float64) (*SampleBuffer, error) {
	b := &SampleBuffer{Channels: channels, SampleRate: sampleRate}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromInterleaved de-interleaves samples with the given channel stride into
// a new planar buffer. Trailing samples that do not fill a whole frame are
// rejected.
func FromInterleaved(samples []float64, channels int, sampleRate float64) (*SampleBuffer, error) {
	if err := validateShape(channels, sampleRate); err != nil {
		return nil, err
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d interleaved samples do not divide into %d channels",
			ErrInvalidFormat, len(samples), channels)
	}

	frames := len(samples) / channels
	b, err := New(channels, frames, sampleRate)
	if err != nil {
		return nil, err
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.Channels[ch][i] = samples[i*channels+ch]
		}
	}

	return b, nil
}

// Interleaved returns the samples in frame-major order.
func (b *SampleBuffer) Interleaved() []float64 {
	channels := b.NumChannels()
	frames := b.Frames()
	out := make([]float64, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = b.Channels[ch][i]
		}
	}
	return out
}

// NumChannels returns the channel count.
func (b *SampleBuffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the number of samples per channel.
func (b *SampleBuffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the clip length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.SampleRate
}

// Clone returns a deep copy of the buffer.
func (b *SampleBuffer) Clone() *SampleBuffer {
	out := &SampleBuffer{
		Channels:   make([][]float64, len(b.Channels)),
		SampleRate: b.SampleRate,
	}
	for ch, data := range b.Channels {
		out.Channels[ch] = append([]float64(nil), data...)
	}
	return out
}

// Validate checks the layout invariants: sample rate > 0, one or two
// channels, all channels the same length.
func (b *SampleBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidFormat)
	}
	if err := validateShape(len(b.Channels), b.SampleRate); err != nil {
		return err
	}

	frames := len(b.Channels[0])
	for ch, data := range b.Channels[1:] {
		if len(data) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrInvalidFormat, ch+1, len(data), frames)
		}
	}

	return nil
}

func validateShape(channels int, sampleRate float64) error {
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("%w: channel count must be in [1, %d]: %d", ErrInvalidFormat, MaxChannels, channels)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidFormat, sampleRate)
	}
	return nil
}
