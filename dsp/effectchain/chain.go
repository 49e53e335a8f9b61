package effectchain

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/audiofx/dsp/buffer"
	"github.com/cwbudde/audiofx/dsp/effects"
)

// Chain applies an ordered list of effects to whole buffers. Every effect is
// tuned for the chain's Format.
type Chain struct {
	format  effects.Format
	effects []effects.Effect
	log     logrus.FieldLogger
}

// Option configures a Chain.
type Option func(*Chain) error

// WithLogger sets the logger used for per-effect debug records. The default
// is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Chain) error {
		if l == nil {
			return errors.New("effect chain logger must not be nil")
		}
		c.log = l
		return nil
	}
}

// Step names one effect of a chain and its raw parameters.
type Step struct {
	Effect string
	Params map[string]float64
}

// New creates an empty chain for buffers of format f.
func New(f effects.Format, opts ...Option) (*Chain, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c := &Chain{format: f, log: logrus.StandardLogger()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewChain builds every step through the registry and returns the assembled
// chain. The first construction error aborts with the step index in the
// message.
func (r *Registry) NewChain(f effects.Format, steps []Step, opts ...Option) (*Chain, error) {
	c, err := New(f, opts...)
	if err != nil {
		return nil, err
	}

	for i, s := range steps {
		fx, err := r.Build(s.Effect, s.Params, f)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, s.Effect, err)
		}

		c.log.WithFields(logrus.Fields{
			"index":       i,
			"effect":      s.Effect,
			"params":      s.Params,
			"sample_rate": f.SampleRate,
			"channels":    f.Channels,
		}).Debug("effect built")

		c.Append(fx)
	}

	return c, nil
}

// Append adds fx at the end of the chain.
func (c *Chain) Append(fx effects.Effect) {
	c.effects = append(c.effects, fx)
}

// Len returns the number of effects.
func (c *Chain) Len() int { return len(c.effects) }

// Format returns the stream shape the chain was built for.
func (c *Chain) Format() effects.Format { return c.format }

// Names returns the effect names in processing order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.effects))
	for i, fx := range c.effects {
		names[i] = fx.Name()
	}
	return names
}

// Process runs buf through every effect in order and returns the final
// buffer. buf is never modified. An empty chain returns a copy of buf.
func (c *Chain) Process(buf *buffer.SampleBuffer) (*buffer.SampleBuffer, error) {
	if buf == nil {
		return nil, errors.New("effect chain: nil buffer")
	}
	if got := effects.FormatOf(buf); got != c.format {
		return nil, fmt.Errorf("%w: chain expects %.0f Hz x %d, got %.0f Hz x %d",
			effects.ErrBufferMismatch, c.format.SampleRate, c.format.Channels, got.SampleRate, got.Channels)
	}

	cur := buf
	for i, fx := range c.effects {
		start := time.Now()

		out, err := fx.Process(cur)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, fx.Name(), err)
		}

		c.log.WithFields(logrus.Fields{
			"index":    i,
			"effect":   fx.Name(),
			"frames":   out.Frames(),
			"channels": out.NumChannels(),
			"elapsed":  time.Since(start),
		}).Debug("effect applied")

		cur = out
	}

	if cur == buf {
		return buf.Clone(), nil
	}

	return cur, nil
}
