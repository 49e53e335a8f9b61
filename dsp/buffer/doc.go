// Package buffer defines SampleBuffer, the in-memory representation of a
// decoded PCM clip that flows between the decoder, the effect engine and the
// encoder.
//
// Samples are normalized float64 amplitudes stored planar (one slice per
// channel). Conversion to and from interleaved layouts is provided for the
// I/O layer; effects always operate on the planar channels.
package buffer
