// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficient design
// (low-pass, high-pass, band-pass, shelves) lives in dsp/filter/design.
package biquad
