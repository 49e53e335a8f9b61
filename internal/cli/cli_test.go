package cli

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/audiofx/dsp/effectchain"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/window"
	"github.com/cwbudde/audiofx/internal/testutil"
)

func TestExampleCommand(t *testing.T) {
	got := ExampleCommand(effects.DelayDescriptor)
	want := "audiofx apply -e delay -p delay.delay=250 -p delay.feedback=0.3 -p delay.mix=0.3 -p delay.damping=0.2 input.wav output.wav"
	if got != want {
		t.Fatalf("ExampleCommand = %q\nwant %q", got, want)
	}
}

func TestRenderEffectInfoListsSelectorChoices(t *testing.T) {
	var buf bytes.Buffer
	RenderEffectInfo(&buf, effects.DistortionDescriptor)

	out := buf.String()
	for _, want := range []string{"distortion", "gain", "0=soft", "3=fuzz", "0 (soft)", "Example:"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output is missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEffectList(t *testing.T) {
	reg := effectchain.DefaultRegistry()

	var buf bytes.Buffer
	RenderEffectList(&buf, reg)

	for _, name := range reg.Names() {
		d, _ := reg.Lookup(name)
		if !strings.Contains(buf.String(), d.Description) {
			t.Errorf("list output is missing the %s description", name)
		}
	}
}

func TestAnalyze(t *testing.T) {
	l := testutil.DeterministicSine(1000, 48000, 0.5, 48000)
	r := make([]float64, 48000)

	report, err := Analyze(testutil.StereoBuffer(t, 48000, l, r), window.TypeHann)
	if err != nil {
		t.Fatal(err)
	}

	if report.Frames != 48000 || report.Duration != 1 || len(report.Channels) != 2 {
		t.Fatalf("report = %+v", report)
	}

	left := report.Channels[0]
	if math.Abs(left.PeakDB-(-6.02)) > 0.05 {
		t.Errorf("peak = %.3f dB, want -6.02", left.PeakDB)
	}
	if math.Abs(left.RMSDB-(-9.03)) > 0.05 {
		t.Errorf("rms = %.3f dB, want -9.03", left.RMSDB)
	}
	if math.Abs(left.DominantHz-1000) > 10 {
		t.Errorf("dominant = %.1f Hz, want 1000", left.DominantHz)
	}
	if left.THDNDB > -40 {
		t.Errorf("thd+n = %.1f dB on a pure tone", left.THDNDB)
	}
	if want := 1.5 * 48000.0 / 8192; math.Abs(report.ResolutionHz-want) > 0.01 {
		t.Errorf("resolution = %.3f Hz, want %.3f", report.ResolutionHz, want)
	}
	if lvl := left.BandsDB[1000]; math.Abs(lvl-(-6.02)) > 0.5 {
		t.Errorf("1 kHz band = %.2f dB", lvl)
	}

	if math.Abs(report.LoudnessLUFS-(-9.03)) > 1 {
		t.Errorf("loudness = %.2f LUFS, want about -9", report.LoudnessLUFS)
	}

	right := report.Channels[1]
	if right.PeakDB != silenceDB || right.RMSDB != silenceDB || right.THDNDB != silenceDB {
		t.Errorf("silent channel reads %v / %v / %v dB", right.PeakDB, right.RMSDB, right.THDNDB)
	}
}

func TestAnalyzeDominantCoversWholeFile(t *testing.T) {
	const sr = 44100.0
	sig := append(testutil.DeterministicSine(250, sr, 0.8, int(sr/4)), testutil.DeterministicSine(2500, sr, 0.4, 2*int(sr))...)

	report, err := Analyze(testutil.MonoBuffer(t, sr, sig), window.TypeBlackman)
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Channels[0].DominantHz; math.Abs(got-2500) > 10 {
		t.Fatalf("dominant = %.1f Hz, want 2500", got)
	}

	var buf bytes.Buffer
	RenderAnalysis(&buf, "tones.wav", report)
	if !strings.Contains(buf.String(), "blackman window") {
		t.Fatalf("window is not reported:\n%s", buf.String())
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	report, err := Analyze(testutil.MonoBuffer(t, 8000, nil), window.TypeHann)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	RenderAnalysis(&buf, "empty.wav", report)
	if !strings.Contains(buf.String(), "0 frames") || strings.Contains(buf.String(), "Octave bands") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
