package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/audiofx/dsp/effectchain"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/window"
	"github.com/cwbudde/audiofx/internal/cli"
	"github.com/cwbudde/audiofx/internal/wavio"
)

// ListCmd prints every registered effect.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(a *app) error {
	cli.RenderEffectList(a.stdout, a.registry)
	return nil
}

// InfoCmd prints the parameters of one effect.
type InfoCmd struct {
	Effect string `arg:"" help:"Effect name"`
}

// Run executes the info command.
func (c *InfoCmd) Run(a *app) error {
	d, ok := a.registry.Lookup(c.Effect)
	if !ok {
		return fmt.Errorf("%w: %s", effectchain.ErrUnknownEffect, c.Effect)
	}
	cli.RenderEffectInfo(a.stdout, d)
	return nil
}

// ApplyCmd runs an effect chain over a WAV file.
type ApplyCmd struct {
	Effects []string           `short:"e" name:"effect" required:"" help:"Effect to apply; repeat to build a chain"`
	Params  map[string]float64 `short:"p" name:"param" placeholder:"EFFECT.NAME=VALUE" help:"Effect parameter; the effect prefix may be omitted for a single effect"`
	Input   string             `arg:"" type:"existingfile" help:"Input WAV file"`
	Output  string             `arg:"" type:"path" help:"Output WAV file"`
}

// Run executes the apply command.
func (c *ApplyCmd) Run(a *app) error {
	steps, err := buildSteps(a.registry, c.Effects, c.Params)
	if err != nil {
		return err
	}

	in, err := wavio.Read(c.Input)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"file":        c.Input,
		"sample_rate": in.SampleRate,
		"channels":    in.NumChannels(),
		"frames":      in.Frames(),
	}).Debug("input decoded")

	chain, err := a.registry.NewChain(effects.FormatOf(in), steps, effectchain.WithLogger(a.log))
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := chain.Process(in)
	if err != nil {
		return err
	}

	if err := wavio.Write(c.Output, out); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"file":    c.Output,
		"effects": chain.Names(),
		"frames":  out.Frames(),
		"elapsed": time.Since(start),
	}).Info("output written")

	return nil
}

// AnalyzeCmd prints level and spectrum statistics.
type AnalyzeCmd struct {
	File   string `arg:"" type:"existingfile" help:"WAV file to analyze"`
	Window string `default:"hann" enum:"hann,hamming,blackman,rectangular" help:"Spectrum analysis window (${enum})"`
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(a *app) error {
	win, err := window.ParseType(c.Window)
	if err != nil {
		return err
	}

	buf, err := wavio.Read(c.File)
	if err != nil {
		return err
	}

	report, err := cli.Analyze(buf, win)
	if err != nil {
		return err
	}

	cli.RenderAnalysis(a.stdout, c.File, report)
	return nil
}
