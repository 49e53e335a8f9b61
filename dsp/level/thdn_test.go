package level

import (
	"testing"

	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestTHDNPureSine(t *testing.T) {
	const sr = 44100.0
	for _, freq := range []float64{100, 1000, 5000} {
		got, err := THDN(testutil.DeterministicSine(freq, sr, 0.5, int(sr)), sr, freq)
		if err != nil {
			t.Fatal(err)
		}
		if got > -80 {
			t.Fatalf("%v Hz: THD+N = %.1f dB, want < -80", freq, got)
		}
	}
}

func TestTHDNClippedSine(t *testing.T) {
	const sr = 44100.0
	sig := testutil.DeterministicSine(1000, sr, 1, int(sr))
	for i, v := range sig {
		sig[i] = min(max(v, -0.5), 0.5)
	}

	// Clipping a sine at half its amplitude leaves about 23% of the RMS in
	// the harmonics.
	got, err := THDN(sig, sr, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if got < -16 || got > -10 {
		t.Fatalf("THD+N = %.2f dB, want about -13", got)
	}
}

func TestTHDNSilenceAndValidation(t *testing.T) {
	got, err := THDN(make([]float64, 1000), 48000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if got != Floor {
		t.Fatalf("silence THD+N = %v, want Floor", got)
	}

	bad := []struct {
		samples []float64
		sr, f   float64
	}{
		{nil, 48000, 1000},
		{[]float64{1}, 0, 1000},
		{[]float64{1}, 48000, 0},
		{[]float64{1}, 48000, 24000},
	}
	for _, tt := range bad {
		if _, err := THDN(tt.samples, tt.sr, tt.f); err == nil {
			t.Fatalf("THDN(len %d, %v, %v) = nil error", len(tt.samples), tt.sr, tt.f)
		}
	}
}
