package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/audiofx/dsp/buffer"
	"github.com/cwbudde/audiofx/dsp/level"
	"github.com/cwbudde/audiofx/dsp/spectrum"
	"github.com/cwbudde/audiofx/dsp/window"
)

const silenceDB = level.Floor

// ChannelReport summarises one channel.
type ChannelReport struct {
	PeakDB     float64
	RMSDB      float64
	CrestDB    float64
	DominantHz float64
	// THDNDB is distortion plus noise around DominantHz, silenceDB when no
	// tone was found.
	THDNDB  float64
	Clipped int
	// BandsDB maps octave band centres below Nyquist to their level.
	BandsDB map[float64]float64
}

// Report is the result of Analyze.
type Report struct {
	SampleRate float64
	Frames     int
	Duration   float64
	// LoudnessLUFS is the gated integrated loudness of all channels.
	LoudnessLUFS float64
	Window       window.Type
	// ResolutionHz is the noise bandwidth of the averaged spectrum.
	ResolutionHz float64
	Channels     []ChannelReport
}

// Analyze measures level and spectral content of every channel of buf. The
// dominant frequency comes from a spectrum averaged over the whole channel
// using win.
func Analyze(buf *buffer.SampleBuffer, win window.Type) (Report, error) {
	if err := buf.Validate(); err != nil {
		return Report{}, err
	}

	loudness, err := level.IntegratedLoudness(buf.Channels, buf.SampleRate)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		SampleRate:   buf.SampleRate,
		Frames:       buf.Frames(),
		Duration:     buf.Duration(),
		LoudnessLUFS: loudness,
		Window:       win,
		Channels:     make([]ChannelReport, len(buf.Channels)),
	}
	if r.Frames == 0 {
		for i := range r.Channels {
			r.Channels[i] = ChannelReport{PeakDB: silenceDB, RMSDB: silenceDB, THDNDB: silenceDB}
		}
		return r, nil
	}

	for i, ch := range buf.Channels {
		stats := level.Calculate(ch)

		spec, err := spectrum.Analyze(ch, buf.SampleRate, 0, spectrum.WithWindow(win))
		if err != nil {
			return Report{}, fmt.Errorf("channel %d: %w", i, err)
		}
		r.ResolutionHz = spec.NoiseBandwidth
		dominant, _ := spec.Peak()

		thdn := silenceDB
		if dominant > 0 && dominant < buf.SampleRate/2 {
			if thdn, err = level.THDN(ch, buf.SampleRate, dominant); err != nil {
				return Report{}, fmt.Errorf("channel %d: %w", i, err)
			}
		}
		bands, err := spectrum.BandLevels(ch, buf.SampleRate, spectrum.OctaveBands)
		if err != nil {
			return Report{}, fmt.Errorf("channel %d: %w", i, err)
		}

		r.Channels[i] = ChannelReport{
			PeakDB:     stats.PeakDB(),
			RMSDB:      stats.RMSDB(),
			CrestDB:    stats.CrestDB(),
			DominantHz: dominant,
			THDNDB:     thdn,
			Clipped:    stats.Clipped,
			BandsDB:    bands,
		}
	}

	return r, nil
}

// RenderAnalysis writes r as a per-channel table.
func RenderAnalysis(w io.Writer, path string, r Report) {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(path))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render("Sample rate:"), ValueStyle.Render(fmt.Sprintf("%.0f Hz", r.SampleRate)))
	fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render("Channels:"), ValueStyle.Render(fmt.Sprintf("%d", len(r.Channels))))
	fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render("Duration:"), ValueStyle.Render(fmt.Sprintf("%.3f s (%d frames)", r.Duration, r.Frames)))
	fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render("Loudness:"), ValueStyle.Render(fmt.Sprintf("%.1f LUFS", r.LoudnessLUFS)))
	if r.ResolutionHz > 0 {
		fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render("Spectrum:"), ValueStyle.Render(fmt.Sprintf("%s window, %.2f Hz resolution", r.Window, r.ResolutionHz)))
	}

	header := []string{"channel", "peak dBFS", "rms dBFS", "crest dB", "dominant Hz", "thd+n dB", "clipped"}
	rows := make([][]string, len(r.Channels))
	for i, c := range r.Channels {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.2f", c.PeakDB),
			fmt.Sprintf("%.2f", c.RMSDB),
			fmt.Sprintf("%.2f", c.CrestDB),
			fmt.Sprintf("%.1f", c.DominantHz),
			fmt.Sprintf("%.1f", c.THDNDB),
			fmt.Sprintf("%d", c.Clipped),
		}
	}
	sb.WriteString(SectionStyle.Render("Levels:"))
	sb.WriteString("\n")
	sb.WriteString(renderTable(header, rows))

	bandHeader := []string{"band Hz"}
	for i := range r.Channels {
		bandHeader = append(bandHeader, fmt.Sprintf("ch%d dB", i))
	}
	var bandRows [][]string
	for _, f := range spectrum.OctaveBands {
		if f > r.SampleRate/2 || r.Frames == 0 {
			continue
		}
		row := []string{fmt.Sprintf("%g", f)}
		for _, c := range r.Channels {
			row = append(row, fmt.Sprintf("%.1f", c.BandsDB[f]))
		}
		bandRows = append(bandRows, row)
	}
	if len(bandRows) > 0 {
		sb.WriteString(SectionStyle.Render("Octave bands:"))
		sb.WriteString("\n")
		sb.WriteString(renderTable(bandHeader, bandRows))
	}

	fmt.Fprint(w, sb.String())
}
