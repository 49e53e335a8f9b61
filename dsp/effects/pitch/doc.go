// Package pitch provides basic overlap-add pitch shifting and time
// stretching.
//
// Both processors cut the signal into fixed-size Hann-windowed frames with a
// quarter-frame analysis hop and overlap-add them, normalizing by the summed
// window. PitchShifter resamples each frame by the pitch ratio and keeps the
// hop; TimeStretcher keeps frame content and scales the synthesis hop. Frames
// are not phase aligned, so both are coarse: expect phasiness and
// amplitude modulation on tonal material.
package pitch
