// Package delay provides a circular delay line with integer and fractional
// reads.
package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/interp"
)

// ErrInvalidDelay is returned for a read offset that is negative, NaN or
// beyond the line capacity.
var ErrInvalidDelay = errors.New("invalid delay")

// Option configures a Line.
type Option func(*Line) error

// WithMode selects the fractional interpolation algorithm. The default is
// interp.Linear.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) error {
		if mode != interp.Linear && mode != interp.Hermite {
			return fmt.Errorf("delay interpolation mode not supported: %d", mode)
		}
		d.mode = mode
		return nil
	}
}

// Line is a circular delay line. Read(d) returns the sample written d writes
// ago, so offset 0 is the newest sample.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// New returns a delay line able to serve offsets up to maxDelay samples.
func New(maxDelay int, opts ...Option) (*Line, error) {
	if maxDelay <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", maxDelay)
	}

	d := &Line{buffer: make([]float64, maxDelay+1), mode: interp.Linear}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Capacity returns the largest valid read offset.
func (d *Line) Capacity() int {
	return len(d.buffer) - 1
}

// Mode returns the fractional interpolation algorithm.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) (float64, error) {
	if delay < 0 || delay > d.Capacity() {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDelay, delay, d.Capacity())
	}
	return d.at(delay), nil
}

// ReadFractional reads a fractional delay in samples, interpolating between
// the neighbouring integer offsets.
func (d *Line) ReadFractional(delay float64) (float64, error) {
	if math.IsNaN(delay) || delay < 0 || delay > float64(d.Capacity()) {
		return 0, fmt.Errorf("%w: %f not in [0, %d]", ErrInvalidDelay, delay, d.Capacity())
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)
	if t == 0 {
		return d.at(p), nil
	}

	if d.mode == interp.Hermite {
		capacity := d.Capacity()
		xm1 := d.at(maxInt(0, p-1))
		x0 := d.at(p)
		x1 := d.at(p + 1)
		x2 := d.at(minInt(capacity, p+2))
		return interp.Hermite4(t, xm1, x0, x1, x2), nil
	}

	return interp.Linear2(t, d.at(p), d.at(p+1)), nil
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

func (d *Line) at(delay int) float64 {
	size := len(d.buffer)
	return d.buffer[(d.writePos-1-delay+2*size)%size]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
