package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/audiofx/dsp/window"
	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestPower(t *testing.T) {
	got := Power([]complex128{3 + 4i, 0, -1})
	testutil.RequireSliceNearlyEqual(t, got, []float64{25, 0, 1}, 1e-12)
	if Power(nil) != nil || Magnitude(nil) != nil {
		t.Fatal("empty input should return nil")
	}
}

func TestAnalyzeFindsSinePeak(t *testing.T) {
	const sr = 44100.0
	for _, freq := range []float64{220, 1000, 5000} {
		sig := testutil.DeterministicSine(freq, sr, 0.5, 8192)

		s, err := Analyze(sig, sr, 8192)
		if err != nil {
			t.Fatal(err)
		}
		if len(s.Magnitudes) != 4097 {
			t.Fatalf("bins = %d, want 4097", len(s.Magnitudes))
		}

		peak, mag := s.Peak()
		if math.Abs(peak-freq) > s.BinWidth()/2 {
			t.Fatalf("peak = %v Hz, want %v (bin width %v)", peak, freq, s.BinWidth())
		}
		if mag < 0.3 || mag > 0.55 {
			t.Fatalf("peak magnitude = %v, want about 0.5", mag)
		}
	}
}

func TestPeakFrequencyShortInput(t *testing.T) {
	sig := testutil.DeterministicSine(1000, 48000, 1, 1000)
	f, err := PeakFrequency(sig, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-1000) > 48000.0/1024 {
		t.Fatalf("PeakFrequency = %v, want ~1000", f)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	if _, err := Analyze(nil, 44100, 0); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Analyze([]float64{1}, 0, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := Analyze([]float64{1}, 44100, 1000); err == nil {
		t.Fatal("expected error for non power-of-two size")
	}
}

func TestSilencePeakIsZero(t *testing.T) {
	s, err := Analyze(make([]float64, 512), 44100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if f, m := s.Peak(); f != 0 || m != 0 {
		t.Fatalf("Peak() = %v, %v on silence", f, m)
	}
}

func TestGoertzelAmplitude(t *testing.T) {
	const sr = 48000.0
	// 1 kHz fits exactly 48 cycles in 2304 samples.
	sig := testutil.DeterministicSine(1000, sr, 0.25, 2304)

	amp, err := Amplitude(sig, 1000, sr)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(amp-0.25) > 1e-9 {
		t.Fatalf("Amplitude = %v, want 0.25", amp)
	}

	off, err := Amplitude(sig, 4000, sr)
	if err != nil {
		t.Fatal(err)
	}
	if off > 1e-9 {
		t.Fatalf("off-bin amplitude = %v, want ~0", off)
	}

	if _, err := NewGoertzel(30000, sr); err == nil {
		t.Fatal("expected error above Nyquist")
	}
}

func TestBandLevels(t *testing.T) {
	const sr = 16000.0
	sig := testutil.DeterministicSine(1000, sr, 1, 1600)

	levels, err := BandLevels(sig, sr, OctaveBands)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := levels[16000]; ok {
		t.Fatal("band above Nyquist should be skipped")
	}
	if math.Abs(levels[1000]) > 1e-6 {
		t.Fatalf("1 kHz level = %v dB, want 0", levels[1000])
	}
	if levels[4000] > -60 {
		t.Fatalf("4 kHz level = %v dB, want well below 0", levels[4000])
	}
}

func TestAnalyzeAveragesWholeBuffer(t *testing.T) {
	const sr = 44100.0
	// A short 500 Hz lead-in followed by a long 3 kHz tone: the averaged
	// spectrum must report the tone that dominates the buffer.
	sig := append(testutil.DeterministicSine(500, sr, 0.5, 8192), testutil.DeterministicSine(3000, sr, 0.5, 3*int(sr))...)

	s, err := Analyze(sig, sr, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := (len(sig)-8192)/4096 + 1; s.Frames != want {
		t.Fatalf("Frames = %d, want %d", s.Frames, want)
	}
	if peak, _ := s.Peak(); math.Abs(peak-3000) > s.BinWidth()/2 {
		t.Fatalf("peak = %v Hz, want 3000", peak)
	}
}

func TestAnalyzeStationaryMagnitude(t *testing.T) {
	const sr = 44100.0
	s, err := Analyze(testutil.DeterministicSine(1000, sr, 0.5, int(sr)), sr, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Frames != 9 {
		t.Fatalf("Frames = %d, want 9", s.Frames)
	}
	if _, mag := s.Peak(); mag < 0.3 || mag > 0.55 {
		t.Fatalf("peak magnitude = %v, want about 0.5", mag)
	}
}

func TestAnalyzeWindows(t *testing.T) {
	const sr = 48000.0
	sig := testutil.DeterministicSine(2000, sr, 0.5, 16384)

	tests := []struct {
		window window.Type
		enbw   float64
	}{
		{window.TypeRectangular, 1},
		{window.TypeHann, 1.5},
		{window.TypeHamming, 1.363},
		{window.TypeBlackman, 1.727},
	}

	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			s, err := Analyze(sig, sr, 4096, WithWindow(tt.window))
			if err != nil {
				t.Fatal(err)
			}
			if s.Window != tt.window {
				t.Fatalf("Window = %v", s.Window)
			}
			if peak, _ := s.Peak(); math.Abs(peak-2000) > s.BinWidth()/2 {
				t.Fatalf("peak = %v Hz, want 2000", peak)
			}
			if want := tt.enbw * s.BinWidth(); math.Abs(s.NoiseBandwidth-want) > 0.01*want {
				t.Fatalf("NoiseBandwidth = %v Hz, want %v", s.NoiseBandwidth, want)
			}
		})
	}

	if _, err := Analyze(sig, sr, 0, WithWindow(window.Type(99))); err == nil {
		t.Fatal("expected error for unsupported window")
	}
}
