// Package effects defines the Effect abstraction and the single-file effects.
//
// Every effect is published as a Descriptor: a registry name, a description,
// ordered parameter specs and a constructor. Building a descriptor validates
// a raw parameter map with param.Build and tunes the effect for one Format.
// Process never modifies its input buffer and rejects buffers whose format
// differs from the tuned one with ErrBufferMismatch.
//
// Mono kernels implement ChannelProcessor (or ChannelTransformer when the
// output length differs) and are fanned out per channel by NewPerChannel,
// one kernel instance per channel.
//
// Effects in this package:
//   - BitCrusher: sample-and-hold decimation and bit-depth quantization.
//   - Delay: feedback echo with one-pole damping in the feedback path.
//   - Distortion: soft, hard, overdrive and fuzz waveshaping.
//   - EQ: three-band equalizer built from RBJ crossover biquads.
//
// Subpackages:
//   - github.com/cwbudde/audiofx/dsp/effects/dynamics
//   - github.com/cwbudde/audiofx/dsp/effects/modulation
//   - github.com/cwbudde/audiofx/dsp/effects/pitch
//   - github.com/cwbudde/audiofx/dsp/effects/reverb
package effects
