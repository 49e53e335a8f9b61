package param

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterOutOfRange is wrapped by *OutOfRangeError.
	ErrParameterOutOfRange = errors.New("parameter out of range")
	// ErrUnknownParameter is wrapped by *UnknownError.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// OutOfRangeError reports a value outside its declared range.
type OutOfRangeError struct {
	Effect string
	Name   string
	Value  float64
	Min    float64
	Max    float64
	// Integer is set when the value was rejected for not being whole.
	Integer bool
}

func (e *OutOfRangeError) Error() string {
	if e.Integer {
		return fmt.Sprintf("%s: parameter %q value %g is not an integer in [%g, %g]", e.Effect, e.Name, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("%s: parameter %q value %g outside [%g, %g]", e.Effect, e.Name, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrParameterOutOfRange }

// UnknownError reports a name the effect does not declare.
type UnknownError struct {
	Effect string
	Name   string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s: unknown parameter %q", e.Effect, e.Name)
}

func (e *UnknownError) Unwrap() error { return ErrUnknownParameter }
