package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/effects/effecttest"
	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestDescriptors(t *testing.T) {
	for _, d := range []effects.Descriptor{CompressorDescriptor, GateDescriptor, LimiterDescriptor} {
		t.Run(d.Name, func(t *testing.T) { effecttest.Run(t, d) })
	}
}

func TestConstructorsRejectSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewGate(sr); err == nil {
			t.Errorf("NewGate(%v): expected error", sr)
		}
		if _, err := NewCompressor(sr); err == nil {
			t.Errorf("NewCompressor(%v): expected error", sr)
		}
		if _, err := NewLimiter(sr); err == nil {
			t.Errorf("NewLimiter(%v): expected error", sr)
		}
	}
}

func TestGateRatioOneConvergesToSilence(t *testing.T) {
	g, err := NewGate(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetRatio(1); err != nil {
		t.Fatal(err)
	}

	// 2 s below threshold is far past hold (10 ms) plus release (100 ms).
	buf := testutil.DC(0.01, 96000)
	if err := g.ProcessInPlace(buf); err != nil {
		t.Fatal(err)
	}
	if g.IsOpen() {
		t.Fatal("gate still open")
	}
	if p := testutil.Peak(buf[len(buf)-1000:]); p > 1e-6 {
		t.Fatalf("tail peak = %v, want ~0", p)
	}
	if m := g.GetMetrics(); m.GainReduction > 1e-3 || m.InputPeak != 0.01 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestGateRatioZeroIsIdentity(t *testing.T) {
	g, err := NewGate(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetRatio(0); err != nil {
		t.Fatal(err)
	}

	in := append(testutil.DeterministicNoise(3, 0.9, 4096), testutil.DC(0.0001, 44100)...)
	got := append([]float64(nil), in...)
	if err := g.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 0)
}

func TestGateHoldKeepsPassthrough(t *testing.T) {
	g, err := NewGate(1000)
	if err != nil {
		t.Fatal(err)
	}
	for _, set := range []func() error{
		func() error { return g.SetHold(100) },
		func() error { return g.SetAttack(0.1) },
		func() error { return g.SetRelease(1) },
	} {
		if err := set(); err != nil {
			t.Fatal(err)
		}
	}

	loud := testutil.DC(0.5, 200)
	if err := g.ProcessInPlace(loud); err != nil {
		t.Fatal(err)
	}

	// The detector releases within a few samples; the hold keeps the gate
	// open well beyond that.
	quiet := testutil.DC(0.001, 50)
	if err := g.ProcessInPlace(quiet); err != nil {
		t.Fatal(err)
	}
	if !g.IsOpen() {
		t.Fatal("gate closed during hold")
	}
	testutil.RequireSliceNearlyEqual(t, quiet[20:], testutil.DC(0.001, 30), 0)

	if err := g.ProcessInPlace(testutil.DC(0.001, 200)); err != nil {
		t.Fatal(err)
	}
	if g.IsOpen() {
		t.Fatal("gate still open after hold")
	}
}

func TestCompressorRatioOneIsIdentity(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetRatio(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetThreshold(0); err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(12, 1, 8192)
	got := append([]float64(nil), in...)
	if err := c.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 0)
}

func TestCompressorStaticCurve(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetThreshold(0.25); err != nil {
		t.Fatal(err)
	}

	// 0.5 is 6.02 dB over 0.25; at 4:1 that removes 4.5 dB.
	want := math.Pow(2, -0.75)
	if got := c.GainFor(0.5); math.Abs(got-want) > 1e-12 {
		t.Fatalf("GainFor(0.5) = %v, want %v", got, want)
	}
	if got := c.GainFor(0.2); got != 1 {
		t.Fatalf("GainFor below threshold = %v, want 1", got)
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	c, err := NewCompressor(48000)
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicSine(440, 48000, 0.9, 48000)
	out := append([]float64(nil), in...)
	if err := c.ProcessInPlace(out); err != nil {
		t.Fatal(err)
	}

	if testutil.RMS(out[24000:]) >= testutil.RMS(in[24000:]) {
		t.Fatal("compressor did not reduce level above threshold")
	}
	if c.GetMetrics().GainReduction >= 1 {
		t.Fatal("metrics report no gain reduction")
	}
}

func TestLimiterCeiling(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		output    float64
		input     []float64
	}{
		{"impulse", 0.5, 1, testutil.Impulse(1024, 0)},
		{"noise", 0.3, 2, testutil.DeterministicNoise(21, 1, 8192)},
		{"sine_boost", 0.8, 1.5, testutil.DeterministicSine(100, 44100, 1, 8192)},
		{"negative_impulse", 0.1, 0.1, []float64{-1, 0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLimiter(44100)
			if err != nil {
				t.Fatal(err)
			}
			if err := l.SetThreshold(tt.threshold); err != nil {
				t.Fatal(err)
			}
			if err := l.SetOutputGain(tt.output); err != nil {
				t.Fatal(err)
			}

			buf := append([]float64(nil), tt.input...)
			if err := l.ProcessInPlace(buf); err != nil {
				t.Fatal(err)
			}

			ceiling := tt.threshold * tt.output
			if p := testutil.Peak(buf); p > ceiling+1e-12 {
				t.Fatalf("peak = %v exceeds %v", p, ceiling)
			}
		})
	}
}

func TestLimiterPassesQuietSignal(t *testing.T) {
	l, err := NewLimiter(44100)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicSine(1000, 44100, 0.5, 4096)
	got := append([]float64(nil), in...)
	if err := l.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 0)
}
