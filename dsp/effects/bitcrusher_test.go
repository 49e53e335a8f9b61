package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestBitCrusherQuantization(t *testing.T) {
	// 1 bit leaves a single step per unit amplitude: -1, 0 or 1.
	bc, err := NewBitCrusher(48000, WithBitCrusherBitDepth(1))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct{ in, want float64 }{
		{0.2, 0}, {0.6, 1}, {-0.7, -1}, {-0.4, 0}, {1, 1},
	} {
		if got := bc.ProcessSample(tc.in); got != tc.want {
			t.Fatalf("ProcessSample(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBitCrusherDownsampleHold(t *testing.T) {
	bc, err := NewBitCrusher(48000, WithBitCrusherBitDepth(16), WithBitCrusherDownsample(3))
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0.5, 0.1, 0.2, -0.25, 0.3, 0.4, 0.125}
	want := []float64{0.5, 0.5, 0.5, -0.25, -0.25, -0.25, 0.125}
	got := append([]float64(nil), in...)
	if err := bc.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)

	bc.Reset()
	if y := bc.ProcessSample(0.25); y != 0.25 {
		t.Fatalf("after Reset first sample = %v, want 0.25", y)
	}
}

func TestBitCrusherMixZeroIsTransparent(t *testing.T) {
	bc, err := NewBitCrusher(48000,
		WithBitCrusherBitDepth(2),
		WithBitCrusherDownsample(8),
		WithBitCrusherMix(0),
	)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicSine(440, 48000, 0.5, 512)
	got := append([]float64(nil), in...)
	if err := bc.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 1e-15)
}

func TestBitCrusherSixteenBitsNearTransparent(t *testing.T) {
	bc, err := NewBitCrusher(48000, WithBitCrusherBitDepth(16))
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicNoise(3, 0.9, 1024)
	got := append([]float64(nil), in...)
	if err := bc.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	diff, err := testutil.MaxAbsDiff(got, in)
	if err != nil {
		t.Fatal(err)
	}
	if diff > 0.5/math.Exp2(15)+1e-15 {
		t.Fatalf("max quantization error %v exceeds half a step", diff)
	}
}

func TestBitCrusherValidation(t *testing.T) {
	for _, opt := range []BitCrusherOption{
		WithBitCrusherBitDepth(0.5),
		WithBitCrusherBitDepth(17),
		WithBitCrusherDownsample(0),
		WithBitCrusherDownsample(101),
		WithBitCrusherMix(-0.1),
		WithBitCrusherMix(math.NaN()),
	} {
		if _, err := NewBitCrusher(48000, opt); err == nil {
			t.Fatal("expected option validation error")
		}
	}
	if _, err := NewBitCrusher(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
