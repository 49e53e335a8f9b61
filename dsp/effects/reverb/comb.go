package reverb

import (
	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/delay"
	"github.com/cwbudde/audiofx/dsp/filter/onepole"
)

// comb is a feedback comb whose recirculating signal passes through a
// one-pole low-pass.
type comb struct {
	line     *delay.Line
	size     int
	feedback float64
	damp     *onepole.Lowpass
}

func newComb(size int, feedback, damping float64) (*comb, error) {
	line, err := delay.New(size)
	if err != nil {
		return nil, err
	}
	damp, err := onepole.New(damping)
	if err != nil {
		return nil, err
	}
	return &comb{line: line, size: size, feedback: feedback, damp: damp}, nil
}

func (c *comb) process(input float64) (float64, error) {
	out, err := c.line.Read(c.size - 1)
	if err != nil {
		return 0, err
	}
	filtered := c.damp.ProcessSample(out)
	c.line.Write(core.FlushDenormals(input + filtered*c.feedback))
	return out, nil
}

func (c *comb) reset() {
	c.line.Reset()
	c.damp.Reset()
}
