package effects

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/audiofx/dsp/buffer"
	"github.com/cwbudde/audiofx/dsp/param"
)

// ErrBufferMismatch is returned when a buffer's sample rate or channel count
// differs from the Format an effect was tuned for.
var ErrBufferMismatch = errors.New("buffer does not match effect format")

// Effect transforms a whole buffer. Implementations never modify the input
// buffer and never return partial output on error.
type Effect interface {
	Name() string
	Process(buf *buffer.SampleBuffer) (*buffer.SampleBuffer, error)
}

// Format is the stream shape an effect instance is tuned for.
type Format struct {
	SampleRate float64
	Channels   int
}

// FormatOf returns the Format of buf.
func FormatOf(buf *buffer.SampleBuffer) Format {
	return Format{SampleRate: buf.SampleRate, Channels: buf.NumChannels()}
}

// Validate checks that the format describes a supported stream.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || math.IsNaN(f.SampleRate) || math.IsInf(f.SampleRate, 0) {
		return fmt.Errorf("effect sample rate must be > 0: %f", f.SampleRate)
	}
	if f.Channels < 1 || f.Channels > buffer.MaxChannels {
		return fmt.Errorf("effect channel count must be in [1, %d]: %d", buffer.MaxChannels, f.Channels)
	}
	return nil
}

// Descriptor publishes an effect: its registry name, a one-line description,
// its ordered parameter specs and a constructor.
type Descriptor struct {
	Name        string
	Description string
	Params      []param.Spec
	New         func(p param.Set, f Format) (Effect, error)
}

// Build validates raw against the descriptor's specs and constructs the
// effect for f.
func (d Descriptor) Build(raw map[string]float64, f Format) (Effect, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	set, err := param.Build(d.Name, d.Params, raw)
	if err != nil {
		return nil, err
	}
	return d.New(set, f)
}

// Validate checks the descriptor declaration.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("effect descriptor name must not be empty")
	}
	if d.New == nil {
		return fmt.Errorf("effect %s has no constructor", d.Name)
	}
	seen := make(map[string]struct{}, len(d.Params))
	for _, s := range d.Params {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("effect %s: %w", d.Name, err)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("effect %s declares parameter %s twice", d.Name, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// ChannelProcessor is a mono kernel that rewrites one channel in place.
type ChannelProcessor interface {
	ProcessInPlace(buf []float64) error
}

// ChannelTransformer is a mono kernel whose output length may differ from
// its input.
type ChannelTransformer interface {
	Transform(in []float64) ([]float64, error)
}

// NewPerChannel builds an Effect that runs one ChannelProcessor per channel.
// newProcessor is called once per channel so every channel owns its state.
func NewPerChannel(name string, f Format, newProcessor func(ch int) (ChannelProcessor, error)) (Effect, error) {
	procs := make([]ChannelProcessor, f.Channels)
	for ch := range procs {
		p, err := newProcessor(ch)
		if err != nil {
			return nil, err
		}
		procs[ch] = p
	}
	return &perChannel{name: name, format: f, procs: procs}, nil
}

// NewPerChannelTransform builds an Effect that runs one ChannelTransformer
// per channel. All channels must produce the same number of samples.
func NewPerChannelTransform(name string, f Format, newTransformer func(ch int) (ChannelTransformer, error)) (Effect, error) {
	trans := make([]ChannelTransformer, f.Channels)
	for ch := range trans {
		t, err := newTransformer(ch)
		if err != nil {
			return nil, err
		}
		trans[ch] = t
	}
	return &perChannelTransform{name: name, format: f, trans: trans}, nil
}

type perChannel struct {
	name   string
	format Format
	procs  []ChannelProcessor
}

func (p *perChannel) Name() string { return p.name }

func (p *perChannel) Process(buf *buffer.SampleBuffer) (*buffer.SampleBuffer, error) {
	if err := checkFormat(p.name, p.format, buf); err != nil {
		return nil, err
	}

	out := buf.Clone()

	var g errgroup.Group
	for ch := range out.Channels {
		g.Go(func() error {
			if err := p.procs[ch].ProcessInPlace(out.Channels[ch]); err != nil {
				return fmt.Errorf("%s: channel %d: %w", p.name, ch, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

type perChannelTransform struct {
	name   string
	format Format
	trans  []ChannelTransformer
}

func (p *perChannelTransform) Name() string { return p.name }

func (p *perChannelTransform) Process(buf *buffer.SampleBuffer) (*buffer.SampleBuffer, error) {
	if err := checkFormat(p.name, p.format, buf); err != nil {
		return nil, err
	}

	channels := make([][]float64, buf.NumChannels())

	var g errgroup.Group
	for ch := range channels {
		g.Go(func() error {
			data, err := p.trans[ch].Transform(buf.Channels[ch])
			if err != nil {
				return fmt.Errorf("%s: channel %d: %w", p.name, ch, err)
			}
			channels[ch] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buffer.FromChannels(buf.SampleRate, channels...)
}

func checkFormat(name string, f Format, buf *buffer.SampleBuffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if got := FormatOf(buf); got != f {
		return fmt.Errorf("%w: %s tuned for %g Hz/%d ch, got %g Hz/%d ch",
			ErrBufferMismatch, name, f.SampleRate, f.Channels, got.SampleRate, got.Channels)
	}
	return nil
}
