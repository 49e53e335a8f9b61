// Command audiofx applies chains of audio effects to 16-bit PCM WAV files.
//
// Usage:
//
//	audiofx list
//	audiofx info <effect>
//	audiofx apply -e <effect> [-e <effect> ...] [-p effect.param=value ...] <input> <output>
//	audiofx analyze <file>
//
// Examples:
//
//	audiofx apply -e distortion -p distortion.gain=4 -e reverb in.wav out.wav
//	audiofx apply -e delay -p delay=350 -p feedback=0.4 in.wav out.wav
//	audiofx info phaser
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/audiofx/dsp/effectchain"
	"github.com/cwbudde/audiofx/internal/cli"
)

var version = "0.1.0"

const description = "Offline audio effects for 16-bit PCM WAV files"

// CLI defines the command-line interface.
type CLI struct {
	Verbose bool        `short:"v" help:"Log debug details to stderr"`
	Version versionFlag `help:"Show version information"`

	List    ListCmd    `cmd:"" help:"List available effects"`
	Info    InfoCmd    `cmd:"" help:"Show the parameters of an effect"`
	Apply   ApplyCmd   `cmd:"" help:"Apply an effect chain to a WAV file"`
	Analyze AnalyzeCmd `cmd:"" help:"Print level and spectrum statistics of a WAV file"`
}

// versionFlag prints the styled version banner and exits.
type versionFlag bool

// BeforeReset runs before required commands are checked, so --version works
// on its own.
func (v versionFlag) BeforeReset(k *kong.Kong, vars kong.Vars) error {
	cli.PrintVersion(k.Stdout, vars["version"])
	k.Exit(0)
	return nil
}

// app carries the shared state every command runs with.
type app struct {
	registry *effectchain.Registry
	log      *logrus.Logger
	stdout   io.Writer
}

func main() {
	cliArgs := &CLI{}
	parser, err := newParser(cliArgs)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	log := newLogger(os.Stderr, cliArgs.Verbose)

	err = ctx.Run(&app{
		registry: effectchain.DefaultRegistry(),
		log:      log,
		stdout:   os.Stdout,
	})
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newParser(cliArgs *CLI, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("audiofx"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Help(cli.StyledHelpPrinter(description)),
	}
	return kong.New(cliArgs, append(base, opts...)...)
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)

	if verbose {
		log.SetLevel(logrus.DebugLevel)

		features := cpu.DetectFeatures()
		log.WithFields(logrus.Fields{
			"arch": features.Architecture,
			"sse2": features.HasSSE2,
			"avx2": features.HasAVX2,
			"neon": features.HasNEON,
		}).Debug("detected cpu features")
	}

	return log
}
