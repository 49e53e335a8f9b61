package effectchain

import (
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/internal/testutil"
)

func BenchmarkChainProcess(b *testing.B) {
	const sampleRate = 48000.0
	f := effects.Format{SampleRate: sampleRate, Channels: 2}
	logger, _ := logtest.NewNullLogger()

	c, err := DefaultRegistry().NewChain(f, []Step{
		{Effect: "eq"},
		{Effect: "compressor"},
		{Effect: "chorus"},
		{Effect: "delay"},
		{Effect: "reverb"},
		{Effect: "limiter"},
	}, WithLogger(logger))
	if err != nil {
		b.Fatal(err)
	}

	in := testutil.StereoBuffer(b, sampleRate,
		testutil.DeterministicSine(220, sampleRate, 0.5, 48000),
		testutil.DeterministicNoise(3, 0.25, 48000))

	b.SetBytes(int64(2 * 48000 * 8))
	b.ResetTimer()

	for range b.N {
		if _, err := c.Process(in); err != nil {
			b.Fatal(err)
		}
	}
}
