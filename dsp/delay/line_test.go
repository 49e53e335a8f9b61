package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/audiofx/dsp/interp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}

	if _, err := New(8, WithMode(interp.Mode(42))); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Capacity() != 16 {
		t.Fatalf("Capacity: got %d want 16", d.Capacity())
	}

	if d.Mode() != interp.Linear {
		t.Fatalf("default mode: got %v want Linear", d.Mode())
	}
}

// --- integer Read/Write ---

func TestImpulseAppearsExactlyAtOffset(t *testing.T) {
	for _, offset := range []int{0, 1, 7, 31, 32} {
		d, err := New(32)
		if err != nil {
			t.Fatal(err)
		}

		d.Write(1)
		for i := 0; i < offset; i++ {
			d.Write(0)
		}

		for probe := 0; probe <= d.Capacity(); probe++ {
			got, err := d.Read(probe)
			if err != nil {
				t.Fatal(err)
			}
			want := 0.0
			if probe == offset {
				want = 1
			}
			if got != want {
				t.Fatalf("offset %d: Read(%d)=%v want %v", offset, probe, got, want)
			}
		}
	}
}

func TestReadWrapsAround(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 12; i++ {
		d.Write(float64(i))
	}

	for delay := 0; delay <= 4; delay++ {
		got, err := d.Read(delay)
		if err != nil {
			t.Fatal(err)
		}
		if want := float64(12 - delay); got != want {
			t.Fatalf("Read(%d)=%v want %v", delay, got, want)
		}
	}
}

func TestReadRejectsInvalidDelay(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Read(-1); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("Read(-1) err=%v want ErrInvalidDelay", err)
	}
	if _, err := d.Read(9); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("Read(9) err=%v want ErrInvalidDelay", err)
	}
	for _, v := range []float64{-0.5, math.NaN(), 8.5} {
		if _, err := d.ReadFractional(v); !errors.Is(err, ErrInvalidDelay) {
			t.Fatalf("ReadFractional(%v) err=%v want ErrInvalidDelay", v, err)
		}
	}
}

// --- fractional reads ---

func TestReadFractionalLinear(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}

	got, err := d.ReadFractional(2.25)
	if err != nil {
		t.Fatal(err)
	}
	// offsets 2 and 3 hold 5 and 4.
	if !approxEqual(got, 4.75, 1e-12) {
		t.Fatalf("ReadFractional(2.25)=%v want 4.75", got)
	}

	exact, err := d.ReadFractional(3)
	if err != nil {
		t.Fatal(err)
	}
	if exact != 4 {
		t.Fatalf("ReadFractional(3)=%v want 4", exact)
	}

	edge, err := d.ReadFractional(8)
	if err != nil {
		t.Fatal(err)
	}
	if edge != 0 {
		t.Fatalf("ReadFractional(8)=%v want oldest sample 0", edge)
	}
}

func TestReadFractionalHermiteOnRamp(t *testing.T) {
	d, err := New(16, WithMode(interp.Hermite))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 16; i++ {
		d.Write(float64(i))
	}

	got, err := d.ReadFractional(4.5)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(got, 10.5, 1e-12) {
		t.Fatalf("ReadFractional(4.5)=%v want 10.5", got)
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	d.Write(1)
	d.Write(2)
	d.Reset()

	for delay := 0; delay <= d.Capacity(); delay++ {
		if got, _ := d.Read(delay); got != 0 {
			t.Fatalf("after Reset Read(%d)=%v want 0", delay, got)
		}
	}
}
