// Package reverb provides an algorithmic room reverb.
//
// The signal path is a pre-delay, a tapped early-reflection line, four
// parallel damped feedback combs and two series Schroeder all-passes for
// diffusion. Room size scales the comb and reflection delay lengths.
package reverb
