package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/neurlang/gostim/encode"
	"github.com/neurlang/gostim/internal/config"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/timing"
	"github.com/pion/logging"
)

func defaults() config.Config {
	return config.Config{
		SampleRate:  44100,
		Frequency:   250,
		Mode:        "blocked",
		Duration:    time.Minute,
		Block:       222 * time.Millisecond,
		Pulse:       100 * time.Millisecond,
		Offset:      25 * time.Millisecond,
		BitDepth:    16,
		Gain:        1,
		ChunkFrames: 4096,
		OutputDir:   "output",
		Format:      "flac",
		Workers:     1,
	}
}

func TestDefaultFileName(t *testing.T) {
	o, err := parseArgs(nil, defaults())
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("output", "Sine-Blocked-250SFREQ-100SPER-222BLK-8CH-44100Hz-60s.flac")
	if got := o.path(); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestFileNames(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{
			[]string{"-shuffle", "-seed", "7", "-pause-period", "5", "-pauses", "1,3", "-duration", "90s"},
			"Sine-Blocked-250SFREQ-100SPER-222BLK-1_3P5-7RSEED-8CH-44100Hz-90s.flac",
		},
		{
			[]string{"-mode", "phase", "-freq", "180.5", "-format", "wav"},
			"Sine-PhaseShifted-180.5SFREQ-8CH-44100Hz-60s.wav",
		},
		{
			[]string{"-mode", "fixed", "-offset", "30", "-rate", "48000", "-duration", "1500ms"},
			"Sine-30FixedPhaseShifted-250SFREQ-8CH-48000Hz-1.5s.flac",
		},
	} {
		o, err := parseArgs(tc.args, defaults())
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if got := filepath.Base(o.path()); got != tc.want {
			t.Errorf("%v: got %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	o, err := parseArgs([]string{"-mode", "fixed", "-freq-right", "300", "-mirror", "-bits", "24", "-o", "x.wav", "-v", "-v"}, defaults())
	if err != nil {
		t.Fatal(err)
	}
	if o.synth.Mode != timing.FixedPhaseShifted || o.synth.BitDepth != 24 {
		t.Errorf("mode %v bits %d", o.synth.Mode, o.synth.BitDepth)
	}
	if g := o.synth.Layout.Groups; g[0].Frequency != 250 || g[1].Frequency != 300 || !g[1].Mirror || !o.synth.Layout.AllowAsymmetric {
		t.Errorf("layout %+v", o.synth.Layout)
	}
	if o.path() != "x.wav" {
		t.Errorf("path %q", o.path())
	}
	if o.verbose.level() != logging.LogLevelDebug {
		t.Errorf("verbosity %d", o.verbose)
	}
	if o.container != encode.WAV {
		t.Errorf("container %v", o.container)
	}
}

func TestParseArgsInvalid(t *testing.T) {
	_, err := parseArgs([]string{"-mode", "random", "-format", "mp3", "-pauses", "a,b"}, defaults())
	var ce *stimerr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	for _, f := range []string{"mode", "format", "pauses"} {
		if !ce.Has(f) {
			t.Errorf("missing %s", f)
		}
	}
	if _, err := parseArgs([]string{"extra"}, defaults()); err == nil {
		t.Error("accepted positional argument")
	}
}

func TestVerbosity(t *testing.T) {
	for v, want := range map[verbosity]logging.LogLevel{
		0: logging.LogLevelWarn,
		1: logging.LogLevelInfo,
		2: logging.LogLevelDebug,
		5: logging.LogLevelTrace,
	} {
		if got := v.level(); got != want {
			t.Errorf("level(%d) = %v, want %v", v, got, want)
		}
	}
}
