package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/audiofx/dsp/buffer"
)

// MonoBuffer wraps samples in a single-channel buffer, failing t on error.
func MonoBuffer(t testing.TB, sampleRate float64, samples []float64) *buffer.SampleBuffer {
	t.Helper()
	b, err := buffer.FromChannels(sampleRate, samples)
	if err != nil {
		t.Fatalf("mono buffer: %v", err)
	}
	return b
}

// StereoBuffer wraps left and right in a two-channel buffer, failing t on error.
func StereoBuffer(t testing.TB, sampleRate float64, left, right []float64) *buffer.SampleBuffer {
	t.Helper()
	b, err := buffer.FromChannels(sampleRate, left, right)
	if err != nil {
		t.Fatalf("stereo buffer: %v", err)
	}
	return b
}

// RequireBufferFinite fails t if any sample of b is NaN or Inf.
func RequireBufferFinite(t testing.TB, b *buffer.SampleBuffer) {
	t.Helper()
	for ch, data := range b.Channels {
		for i, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("channel %d index %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// RequireSilent fails t if any sample of b is non-zero.
func RequireSilent(t testing.TB, b *buffer.SampleBuffer) {
	t.Helper()
	for ch, data := range b.Channels {
		for i, v := range data {
			if v != 0 {
				t.Fatalf("channel %d index %d: got %v, want silence", ch, i, v)
			}
		}
	}
}

// Peak returns the largest absolute sample value.
func Peak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root-mean-square level of data.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}
