// Package spectrum provides magnitude-spectrum analysis for rendered audio.
//
// [Analyze] windows a block with a periodic Hann window, transforms it with
// algo-fft and returns single-sided magnitudes. [Goertzel] evaluates single
// DFT bins without a full transform and backs band-level measurements.
package spectrum
