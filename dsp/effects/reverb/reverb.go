package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/audiofx/dsp/core"
	"github.com/cwbudde/audiofx/dsp/delay"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/filter/allpass"
	"github.com/cwbudde/audiofx/dsp/param"
)

const (
	defaultRoomSize   = 0.5
	defaultDamping    = 0.5
	defaultMix        = 0.3
	defaultFeedback   = 0.5
	defaultPreDelayMs = 20.0

	minRoomSize   = 0.1
	maxFeedback   = 0.9
	maxPreDelayMs = 100.0

	numCombs         = 4
	combBaseMs       = 30.0
	combOutputScale  = 1.0 / numCombs
	evenCombPolarity = 1.0
	oddCombPolarity  = -0.8
	allpassGain      = 0.5
	earlyLevel       = 0.5
)

var (
	combRatios    = [numCombs]float64{1, 1.3, 1.7, 2.1}
	allpassMs     = [...]float64{5.0, 1.7}
	earlyTapMs    = [...]float64{7, 11, 17, 23, 29}
	earlyTapGains = [...]float64{0.6, 0.5, 0.4, 0.3, 0.2}
	earlyMaxMs    = earlyTapMs[len(earlyTapMs)-1]
)

// Descriptor registers the reverb.
var Descriptor = effects.Descriptor{
	Name:        "reverb",
	Description: "Room reverb with pre-delay and early reflections",
	Params: []param.Spec{
		{Name: "room_size", Description: "Scales reflection and comb lengths", Min: minRoomSize, Max: 1, Default: defaultRoomSize, Unit: param.Ratio},
		{Name: "damping", Description: "High-frequency loss in the tail", Min: 0, Max: 1, Default: defaultDamping, Unit: param.Ratio},
		{Name: "mix", Description: "Dry/wet balance", Min: 0, Max: 1, Default: defaultMix, Unit: param.Ratio},
		{Name: "feedback", Description: "Comb feedback (tail length)", Min: 0, Max: maxFeedback, Default: defaultFeedback, Unit: param.Ratio},
		{Name: "pre_delay", Description: "Delay before the reverberant signal", Min: 0, Max: maxPreDelayMs, Default: defaultPreDelayMs, Unit: param.Milliseconds},
	},
	New: func(p param.Set, f effects.Format) (effects.Effect, error) {
		return effects.NewPerChannel("reverb", f, func(int) (effects.ChannelProcessor, error) {
			return New(f.SampleRate, Config{
				RoomSize:   p.Float("room_size"),
				Damping:    p.Float("damping"),
				Mix:        p.Float("mix"),
				Feedback:   p.Float("feedback"),
				PreDelayMs: p.Float("pre_delay"),
			})
		})
	},
}

// Config holds the reverb settings.
type Config struct {
	RoomSize   float64
	Damping    float64
	Mix        float64
	Feedback   float64
	PreDelayMs float64
}

// DefaultConfig returns the registered defaults.
func DefaultConfig() Config {
	return Config{
		RoomSize:   defaultRoomSize,
		Damping:    defaultDamping,
		Mix:        defaultMix,
		Feedback:   defaultFeedback,
		PreDelayMs: defaultPreDelayMs,
	}
}

// Validate checks that every setting is within range.
func (c Config) Validate() error {
	for _, r := range []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"room size", c.RoomSize, minRoomSize, 1},
		{"damping", c.Damping, 0, 1},
		{"mix", c.Mix, 0, 1},
		{"feedback", c.Feedback, 0, maxFeedback},
		{"pre-delay", c.PreDelayMs, 0, maxPreDelayMs},
	} {
		if r.v < r.lo || r.v > r.hi || math.IsNaN(r.v) {
			return fmt.Errorf("reverb %s must be in [%g, %g]: %f", r.name, r.lo, r.hi, r.v)
		}
	}
	return nil
}

// Reverb is a mono room reverb:
//
//	pre  = x delayed by pre_delay
//	er   = sum of tapped reflections of pre
//	late = allpass2(allpass1(sum of ±combs(pre) / 4))
//	y    = (1-mix)*x + mix*(earlyLevel*er + late)
type Reverb struct {
	cfg Config

	preDelay   *delay.Line
	preSamples int

	early    *delay.Line
	earlyTap []int

	combs     []*comb
	allpasses []*allpass.Section
}

// New creates a reverb for sampleRate.
func New(sampleRate float64, cfg Config) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	toSamples := func(ms float64) int {
		return max(int(math.Round(core.MsToSamples(ms, sampleRate))), 1)
	}

	r := &Reverb{cfg: cfg}

	var err error
	r.preSamples = int(math.Round(core.MsToSamples(cfg.PreDelayMs, sampleRate)))
	if r.preDelay, err = delay.New(max(r.preSamples, 1)); err != nil {
		return nil, err
	}

	r.earlyTap = make([]int, len(earlyTapMs))
	for i, ms := range earlyTapMs {
		r.earlyTap[i] = toSamples(ms * cfg.RoomSize)
	}
	if r.early, err = delay.New(toSamples(earlyMaxMs * cfg.RoomSize)); err != nil {
		return nil, err
	}

	for _, ratio := range combRatios {
		c, err := newComb(toSamples(combBaseMs*ratio*cfg.RoomSize), cfg.Feedback, cfg.Damping)
		if err != nil {
			return nil, err
		}
		r.combs = append(r.combs, c)
	}

	for _, ms := range allpassMs {
		ap, err := allpass.New(toSamples(ms), allpassGain)
		if err != nil {
			return nil, err
		}
		r.allpasses = append(r.allpasses, ap)
	}

	return r, nil
}

// ProcessSample processes one sample.
func (r *Reverb) ProcessSample(input float64) (float64, error) {
	pre := input
	if r.preSamples > 0 {
		var err error
		if pre, err = r.preDelay.Read(r.preSamples - 1); err != nil {
			return 0, err
		}
		r.preDelay.Write(input)
	}

	r.early.Write(pre)
	early := 0.0
	for i, tap := range r.earlyTap {
		v, err := r.early.Read(tap)
		if err != nil {
			return 0, err
		}
		early += v * earlyTapGains[i]
	}

	late := 0.0
	for i, c := range r.combs {
		out, err := c.process(pre)
		if err != nil {
			return 0, err
		}
		if i%2 == 0 {
			late += out * evenCombPolarity
		} else {
			late += out * oddCombPolarity
		}
	}
	late *= combOutputScale
	for _, ap := range r.allpasses {
		late = ap.ProcessSample(late)
	}

	wet := earlyLevel*early + late
	return input*(1-r.cfg.Mix) + wet*r.cfg.Mix, nil
}

// ProcessInPlace applies reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		y, err := r.ProcessSample(x)
		if err != nil {
			return err
		}
		buf[i] = y
	}
	return nil
}

// Reset clears all delay and filter state.
func (r *Reverb) Reset() {
	r.preDelay.Reset()
	r.early.Reset()
	for _, c := range r.combs {
		c.reset()
	}
	for _, ap := range r.allpasses {
		ap.Reset()
	}
}

// CombLengths returns the comb delays in samples.
func (r *Reverb) CombLengths() []int {
	out := make([]int, len(r.combs))
	for i, c := range r.combs {
		out[i] = c.size
	}
	return out
}
