package param

import (
	"fmt"
	"math"
)

// Unit describes how a parameter value is interpreted.
type Unit int

const (
	Unitless Unit = iota
	Milliseconds
	Hertz
	Decibels
	Ratio
	Octaves
	// Selector marks an integral choice such as a waveform or curve type.
	Selector
	Bits
)

// String returns the unit suffix used in listings.
func (u Unit) String() string {
	switch u {
	case Milliseconds:
		return "ms"
	case Hertz:
		return "Hz"
	case Decibels:
		return "dB"
	case Ratio:
		return "ratio"
	case Octaves:
		return "oct"
	case Selector:
		return "choice"
	case Bits:
		return "bits"
	default:
		return ""
	}
}

// Spec declares one parameter: its name, inclusive range, default and unit.
type Spec struct {
	Name        string
	Description string
	Min         float64
	Max         float64
	Default     float64
	Unit        Unit
	// Choices names the integral values of a Selector parameter, starting
	// at Min.
	Choices []string
	// Integer restricts the value to whole numbers. Selectors and specs
	// with Choices are always integral.
	Integer bool
}

// Validate checks the declaration itself.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("parameter name must not be empty")
	}
	for _, v := range []float64{s.Min, s.Max, s.Default} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %s bounds must be finite", s.Name)
		}
	}
	if s.Min > s.Max {
		return fmt.Errorf("parameter %s min %g exceeds max %g", s.Name, s.Min, s.Max)
	}
	if s.Default < s.Min || s.Default > s.Max {
		return fmt.Errorf("parameter %s default %g outside [%g, %g]", s.Name, s.Default, s.Min, s.Max)
	}
	if s.Integral() {
		for _, v := range []float64{s.Min, s.Max, s.Default} {
			if v != math.Trunc(v) {
				return fmt.Errorf("parameter %s is integral but declares %g", s.Name, v)
			}
		}
	}
	if len(s.Choices) > 0 && len(s.Choices) != int(s.Max-s.Min)+1 {
		return fmt.Errorf("parameter %s has %d choices for range [%g, %g]", s.Name, len(s.Choices), s.Min, s.Max)
	}
	return nil
}

// Integral reports whether values must be whole numbers.
func (s Spec) Integral() bool {
	return s.Integer || s.Unit == Selector || len(s.Choices) > 0
}

// Contains reports whether v lies within the inclusive range and, for
// integral specs, is a whole number.
func (s Spec) Contains(v float64) bool {
	if math.IsNaN(v) || v < s.Min || v > s.Max {
		return false
	}
	return !s.Integral() || v == math.Trunc(v)
}

// Choice returns the label of selector value v, or "" when none applies.
func (s Spec) Choice(v float64) string {
	i := int(math.Round(v - s.Min))
	if i < 0 || i >= len(s.Choices) {
		return ""
	}
	return s.Choices[i]
}
