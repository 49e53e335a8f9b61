// Package effecttest checks the behavior every registered effect shares.
package effecttest

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/param"
	"github.com/cwbudde/audiofx/internal/testutil"
)

const (
	sampleRate = 44100.0
	frames     = 8192
)

// Run exercises d with defaults and with every parameter pinned to its
// minimum and maximum: output stays finite, silence stays silent, the input
// is never modified and mismatched buffers are rejected.
func Run(t *testing.T, d effects.Descriptor) {
	t.Helper()

	if err := d.Validate(); err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	t.Run("defaults", func(t *testing.T) { checkFinite(t, d, nil) })
	t.Run("min", func(t *testing.T) { checkFinite(t, d, extremes(d.Params, func(s param.Spec) float64 { return s.Min })) })
	t.Run("max", func(t *testing.T) { checkFinite(t, d, extremes(d.Params, func(s param.Spec) float64 { return s.Max })) })
	t.Run("silence", func(t *testing.T) { checkSilence(t, d) })
	t.Run("stereo", func(t *testing.T) { checkStereoMatchesMono(t, d) })
	t.Run("mismatch", func(t *testing.T) { checkMismatch(t, d) })
	t.Run("unknown_param", func(t *testing.T) {
		_, err := d.Build(map[string]float64{"no_such_param": 1}, effects.Format{SampleRate: sampleRate, Channels: 1})
		if !errors.Is(err, param.ErrUnknownParameter) {
			t.Fatalf("err = %v, want ErrUnknownParameter", err)
		}
	})
}

func extremes(specs []param.Spec, pick func(param.Spec) float64) map[string]float64 {
	raw := make(map[string]float64, len(specs))
	for _, s := range specs {
		raw[s.Name] = pick(s)
	}
	return raw
}

func build(t *testing.T, d effects.Descriptor, raw map[string]float64, channels int) effects.Effect {
	t.Helper()
	fx, err := d.Build(raw, effects.Format{SampleRate: sampleRate, Channels: channels})
	if err != nil {
		t.Fatalf("build %s: %v", d.Name, err)
	}
	if fx.Name() != d.Name {
		t.Fatalf("Name() = %q, want %q", fx.Name(), d.Name)
	}
	return fx
}

func checkFinite(t *testing.T, d effects.Descriptor, raw map[string]float64) {
	fx := build(t, d, raw, 2)

	left := testutil.DeterministicNoise(1, 1, frames)
	right := testutil.DeterministicSine(440, sampleRate, 1, frames)
	in := testutil.StereoBuffer(t, sampleRate, left, right)
	orig := in.Clone()

	out, err := fx.Process(in)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("output buffer: %v", err)
	}
	if out.NumChannels() != 2 || out.SampleRate != sampleRate {
		t.Fatalf("output format = %g Hz/%d ch", out.SampleRate, out.NumChannels())
	}
	testutil.RequireBufferFinite(t, out)

	for ch := range in.Channels {
		testutil.RequireSliceNearlyEqual(t, in.Channels[ch], orig.Channels[ch], 0)
	}
}

func checkSilence(t *testing.T, d effects.Descriptor) {
	fx := build(t, d, nil, 1)
	out, err := fx.Process(testutil.MonoBuffer(t, sampleRate, make([]float64, frames)))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, v := range out.Channels[0] {
		if math.Abs(v) > 1e-12 {
			t.Fatalf("silent input produced %v", v)
		}
	}
}

func checkStereoMatchesMono(t *testing.T, d effects.Descriptor) {
	sig := testutil.DeterministicNoise(7, 0.5, frames)

	mono, err := build(t, d, nil, 1).Process(testutil.MonoBuffer(t, sampleRate, sig))
	if err != nil {
		t.Fatalf("mono: %v", err)
	}
	stereo, err := build(t, d, nil, 2).Process(testutil.StereoBuffer(t, sampleRate, sig, sig))
	if err != nil {
		t.Fatalf("stereo: %v", err)
	}

	for ch := range stereo.Channels {
		testutil.RequireSliceNearlyEqual(t, stereo.Channels[ch], mono.Channels[0], 0)
	}
}

func checkMismatch(t *testing.T, d effects.Descriptor) {
	fx := build(t, d, nil, 1)

	stereo := testutil.StereoBuffer(t, sampleRate, make([]float64, 64), make([]float64, 64))
	if _, err := fx.Process(stereo); !errors.Is(err, effects.ErrBufferMismatch) {
		t.Fatalf("channel mismatch err = %v, want ErrBufferMismatch", err)
	}

	rate := testutil.MonoBuffer(t, 48000, make([]float64, 64))
	if _, err := fx.Process(rate); !errors.Is(err, effects.ErrBufferMismatch) {
		t.Fatalf("rate mismatch err = %v, want ErrBufferMismatch", err)
	}
}
