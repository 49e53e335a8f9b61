// Package wavio reads and writes 16-bit PCM WAV files as sample buffers.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/audiofx/dsp/buffer"
)

const (
	// BitDepth is the only PCM width read and written.
	BitDepth = 16

	// MinSampleRate and MaxSampleRate bound the supported sample rates.
	MinSampleRate = 8000
	MaxSampleRate = 192000

	pcmFormat = 1
	fullScale = 32768.0
	maxCode   = 32767.0
)

// ErrUnsupportedFormat is returned for containers outside 16-bit PCM,
// 8 kHz to 192 kHz, mono or stereo.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// CheckFormat reports whether a stream shape can be round-tripped.
func CheckFormat(sampleRate, channels int) error {
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %d Hz outside [%d, %d]", ErrUnsupportedFormat, sampleRate, MinSampleRate, MaxSampleRate)
	}
	if channels < 1 || channels > buffer.MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
	return nil
}

// Read decodes the WAV file at path.
func Read(path string) (*buffer.SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// Decode reads a whole WAV stream. Samples are scaled by 1/32768 into
// [-1, 1).
func Decode(r io.ReadSeeker) (*buffer.SampleBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrUnsupportedFormat)
	}
	if dec.WavAudioFormat != pcmFormat || dec.BitDepth != BitDepth {
		return nil, fmt.Errorf("%w: only %d-bit PCM is supported (format %d, %d bits)",
			ErrUnsupportedFormat, BitDepth, dec.WavAudioFormat, dec.BitDepth)
	}

	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	if err := CheckFormat(sampleRate, channels); err != nil {
		return nil, err
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}

	interleaved := make([]float64, len(pcm.Data)-len(pcm.Data)%channels)
	for i := range interleaved {
		interleaved[i] = float64(pcm.Data[i]) / fullScale
	}

	return buffer.FromInterleaved(interleaved, channels, float64(sampleRate))
}

// Write encodes buf to a new file at path, replacing any existing file.
func Write(path string, buf *buffer.SampleBuffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Encode(f, buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes buf as 16-bit PCM. Samples are clamped to [-1, 1] and
// rounded to the nearest code.
func Encode(w io.WriteSeeker, buf *buffer.SampleBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	sampleRate := int(math.Round(buf.SampleRate))
	channels := buf.NumChannels()
	if err := CheckFormat(sampleRate, channels); err != nil {
		return err
	}

	samples := buf.Interleaved()
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = Quantize(v)
	}

	enc := wav.NewEncoder(w, sampleRate, BitDepth, channels, pcmFormat)
	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("encode pcm: %w", err)
	}
	return enc.Close()
}

// Quantize maps v to a 16-bit code. NaN encodes as silence.
func Quantize(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(min(max(v, -1), 1) * maxCode))
}
