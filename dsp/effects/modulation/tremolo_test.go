package modulation

import (
	"testing"

	"github.com/cwbudde/audiofx/dsp/lfo"
	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestTremoloSquareGatesHalfCycles(t *testing.T) {
	// 8 Hz at 1024 Hz gives an exact 128-sample period.
	tr, err := NewTremolo(1024, WithTremoloRate(8), WithTremoloDepth(1), WithTremoloWaveform(lfo.Square))
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.Ones(256)
	if err := tr.ProcessInPlace(buf); err != nil {
		t.Fatal(err)
	}

	for i, v := range buf {
		want := 1.0
		if i%128 >= 64 {
			want = 0
		}
		if v != want {
			t.Fatalf("gain at %d = %v, want %v", i, v, want)
		}
	}
}

func TestTremoloGainRange(t *testing.T) {
	for w := lfo.Sine; w <= lfo.Sawtooth; w++ {
		tr, err := NewTremolo(48000, WithTremoloDepth(0.7), WithTremoloWaveform(w))
		if err != nil {
			t.Fatal(err)
		}
		buf := testutil.Ones(48000)
		if err := tr.ProcessInPlace(buf); err != nil {
			t.Fatal(err)
		}
		for i, g := range buf {
			if g < 0.3-1e-12 || g > 1+1e-12 {
				t.Fatalf("%v: gain at %d = %v outside [0.3, 1]", w, i, g)
			}
		}
	}
}

func TestTremoloBlockMatchesSample(t *testing.T) {
	a, _ := NewTremolo(44100, WithTremoloWaveform(lfo.Triangle))
	b, _ := NewTremolo(44100, WithTremoloWaveform(lfo.Triangle))

	in := testutil.DeterministicNoise(4, 1, 1000)
	block := append([]float64(nil), in...)
	if err := a.ProcessInPlace(block); err != nil {
		t.Fatal(err)
	}
	for i, x := range in {
		if y := b.ProcessSample(x); y != block[i] {
			t.Fatalf("index %d: sample %v != block %v", i, y, block[i])
		}
	}
}

func TestTremoloDepthZeroIsTransparent(t *testing.T) {
	tr, err := NewTremolo(44100, WithTremoloDepth(0))
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicNoise(8, 1, 1024)
	got := append([]float64(nil), in...)
	if err := tr.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 0)
}
