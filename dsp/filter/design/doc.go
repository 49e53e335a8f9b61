// Package design provides RBJ-style biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad. Every designer clamps its corner frequency into
// [MinFrequencyRatio*fs, MaxFrequencyRatio*fs] and replaces a non-positive Q
// with 1/sqrt(2), so the returned sections are always stable.
package design
