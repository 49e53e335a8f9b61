// Package dynamics provides envelope-driven dynamics processors.
//
// Included processors:
//   - Compressor: dB-domain downward compressor with makeup gain.
//   - Gate: noise gate with hold period and partial attenuation.
//   - Limiter: smoothed gain limiter with a hard output ceiling.
//
// All detectors follow the rectified input with an asymmetric attack/release
// envelope. Processors are mono; stereo buffers use one instance per channel.
package dynamics
