// Package modulation provides LFO- and envelope-modulated effects.
//
// Included processors:
//   - AutoWah: envelope follower driving a band-pass sweep.
//   - Chorus: modulated delay around a medium base delay.
//   - Flanger: short modulated delay with feedback.
//   - Phaser: first-order all-pass cascade swept by an LFO.
//   - Tremolo: LFO amplitude modulation with selectable waveform.
//   - Vibrato: fully wet modulated delay (pitch wobble).
//
// Each processor has a Descriptor for registration and a direct
// constructor taking functional options.
package modulation
