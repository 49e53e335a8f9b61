package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestDelayImpulseArrivesAfterDelayTime(t *testing.T) {
	const sampleRate = 1000.0

	d, err := NewDelay(sampleRate,
		WithDelayTimeMs(100),
		WithDelayFeedback(0),
		WithDelayMix(1),
		WithDelayDamping(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	if d.DelaySamples() != 100 {
		t.Fatalf("DelaySamples() = %d, want 100", d.DelaySamples())
	}

	buf := testutil.Impulse(300, 0)
	if err := d.ProcessInPlace(buf); err != nil {
		t.Fatal(err)
	}

	want := testutil.Impulse(300, 100)
	testutil.RequireSliceNearlyEqual(t, buf, want, 0)
}

func TestDelayFeedbackRepeatsDecay(t *testing.T) {
	d, err := NewDelay(1000,
		WithDelayTimeMs(10),
		WithDelayFeedback(0.5),
		WithDelayMix(1),
		WithDelayDamping(0),
	)
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.Impulse(40, 0)
	if err := d.ProcessInPlace(buf); err != nil {
		t.Fatal(err)
	}

	for i, want := range map[int]float64{10: 1, 20: 0.5, 30: 0.25} {
		if math.Abs(buf[i]-want) > 1e-12 {
			t.Fatalf("repeat at %d = %v, want %v", i, buf[i], want)
		}
	}
}

func TestDelayMixZeroIsDry(t *testing.T) {
	d, err := NewDelay(48000, WithDelayMix(0), WithDelayFeedback(0.9))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(3, 0.5, 4096)
	got := append([]float64(nil), in...)
	if err := d.ProcessInPlace(got); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, in, 0)
}

func TestDelayResetClearsHistory(t *testing.T) {
	d, err := NewDelay(1000, WithDelayTimeMs(10), WithDelayMix(1))
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.Ones(20)
	if err := d.ProcessInPlace(buf); err != nil {
		t.Fatal(err)
	}
	d.Reset()

	silent := make([]float64, 20)
	if err := d.ProcessInPlace(silent); err != nil {
		t.Fatal(err)
	}
	if p := testutil.Peak(silent); p != 0 {
		t.Fatalf("output after Reset peak = %v, want 0", p)
	}
}

func TestDelayValidation(t *testing.T) {
	if _, err := NewDelay(0); err == nil {
		t.Fatal("expected sample rate error")
	}
	for _, opt := range []DelayOption{
		WithDelayTimeMs(5),
		WithDelayTimeMs(2500),
		WithDelayFeedback(0.95),
		WithDelayMix(-0.1),
		WithDelayDamping(math.NaN()),
	} {
		if _, err := NewDelay(48000, opt); err == nil {
			t.Fatal("expected option validation error")
		}
	}
}
