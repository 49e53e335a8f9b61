package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/audiofx/dsp/buffer"
	"github.com/cwbudde/audiofx/dsp/effectchain"
	"github.com/cwbudde/audiofx/dsp/effects"
)

func ExampleRegistry_NewChain() {
	reg := effectchain.DefaultRegistry()
	f := effects.Format{SampleRate: 1000, Channels: 1}

	chain, err := reg.NewChain(f, []effectchain.Step{
		{Effect: "distortion", Params: map[string]float64{"type": 1, "threshold": 0.5, "output": 1}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	in, _ := buffer.FromChannels(1000, []float64{0.2, 0.4, -0.6})
	out, err := chain.Process(in)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(chain.Names(), out.Channels[0])
	// Output: [distortion] [0.4 0.5 -0.5]
}
