package allpass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 0.5); err == nil {
		t.Fatal("expected error for zero delay")
	}
	for _, g := range []float64{-1, 1, math.NaN()} {
		if _, err := New(10, g); err == nil {
			t.Fatalf("expected error for gain %v", g)
		}
	}
}

func TestSectionImpulseResponse(t *testing.T) {
	const (
		d = 3
		g = 0.5
	)
	s, err := New(d, g)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.Impulse(10, 0)
	got := make([]float64, len(in))
	for i, x := range in {
		got[i] = s.ProcessSample(x)
	}

	// h[0] = -g, h[D] = 1-g², h[2D] = g(1-g²).
	want := []float64{-g, 0, 0, 1 - g*g, 0, 0, g * (1 - g*g), 0, 0, g * g * (1 - g*g)}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestSectionPreservesEnergy(t *testing.T) {
	s, err := New(37, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	ir := testutil.Impulse(20000, 0)
	s.ProcessInPlace(ir)

	energy := 0.0
	for _, v := range ir {
		energy += v * v
	}
	if math.Abs(energy-1) > 1e-6 {
		t.Fatalf("impulse response energy = %v, want 1", energy)
	}
}

func TestFirstOrderFlatMagnitude(t *testing.T) {
	const sr = 48000.0
	for _, fc := range []float64{200, 1000, 5000} {
		a := Coefficient(fc, sr)
		for _, f := range []float64{50, 1000, 10000, 20000} {
			z1 := cmplx.Exp(complex(0, -2*math.Pi*f/sr))
			h := (complex(a, 0) + z1) / (1 + complex(a, 0)*z1)
			if math.Abs(cmplx.Abs(h)-1) > 1e-12 {
				t.Fatalf("fc=%v f=%v: |H| = %v", fc, f, cmplx.Abs(h))
			}
		}
	}
}

func TestFirstOrderMatchesDifferenceEquation(t *testing.T) {
	var f FirstOrder
	a := -0.3
	in := []float64{1, 0, 0, 0}
	// y0 = a, y1 = 1 - a², y2 = -a(1-a²), y3 = a²(1-a²)
	want := []float64{a, 1 - a*a, -a * (1 - a*a), a * a * (1 - a*a)}
	got := make([]float64, len(in))
	for i, x := range in {
		got[i] = f.ProcessSample(x, a)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	f.Reset()
	if y := f.ProcessSample(0, a); y != 0 {
		t.Fatalf("after Reset ProcessSample(0) = %v", y)
	}
}

func TestCoefficientRange(t *testing.T) {
	for _, f := range []float64{-5, 0, 100, 24000, 1e6} {
		a := Coefficient(f, 48000)
		if !(a > -1 && a < 1) {
			t.Fatalf("Coefficient(%v) = %v outside (-1, 1)", f, a)
		}
	}
}
