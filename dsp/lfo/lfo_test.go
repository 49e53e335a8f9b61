package lfo

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(1, 0, Sine); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := New(math.NaN(), 48000, Sine); err == nil {
		t.Fatal("expected error for NaN rate")
	}
	if _, err := New(1, 48000, Waveform(7)); err == nil {
		t.Fatal("expected error for unknown waveform")
	}
}

func TestOutputBoundedAndPeriodic(t *testing.T) {
	const (
		sampleRate = 1024.0
		rate       = 8.0
		period     = 128
	)

	for _, w := range []Waveform{Sine, Triangle, Square, Sawtooth} {
		t.Run(w.String(), func(t *testing.T) {
			l, err := New(rate, sampleRate, w)
			if err != nil {
				t.Fatal(err)
			}

			first := make([]float64, period)
			for i := range first {
				v := l.Next()
				if v < -1 || v > 1 {
					t.Fatalf("sample %d out of range: %v", i, v)
				}
				first[i] = v
			}
			for i := 0; i < period; i++ {
				v := l.Next()
				if math.Abs(v-first[i]) > 1e-9 {
					t.Fatalf("sample %d of second period = %v, want %v", i, v, first[i])
				}
			}
		})
	}
}

func TestEvaluateThenAdvance(t *testing.T) {
	l, err := New(250, 1000, Triangle)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 1, 0, -1, 0}
	for i, w := range want {
		if got := l.Next(); math.Abs(got-w) > 1e-12 {
			t.Fatalf("Next()[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestValueShapes(t *testing.T) {
	tests := []struct {
		w    Waveform
		p    float64
		want float64
	}{
		{Sine, 0.25, 1},
		{Triangle, 0.125, 0.5},
		{Triangle, 0.5, 0},
		{Square, 0.49, 1},
		{Square, 0.5, -1},
		{Sawtooth, 0, -1},
		{Sawtooth, 0.75, 0.5},
	}
	for _, tt := range tests {
		if got := Value(tt.w, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Value(%v, %v) = %v, want %v", tt.w, tt.p, got, tt.want)
		}
	}
}

func TestPhaseControl(t *testing.T) {
	l, err := New(1, 100, Sine)
	if err != nil {
		t.Fatal(err)
	}
	l.SetPhase(1.25)
	if got := l.Phase(); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("Phase() = %v, want 0.25", got)
	}
	l.Next()
	l.Reset()
	if l.Phase() != 0 {
		t.Fatalf("Phase() after Reset = %v, want 0", l.Phase())
	}
}
