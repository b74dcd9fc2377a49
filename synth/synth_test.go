package synth

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/timing"
)

func exampleConfig() Config {
	return Config{
		SampleRate:   1000,
		Duration:     2 * time.Second,
		Mode:         timing.Blocked,
		Layout:       channel.Symmetric(channel.GroupSettings{Frequency: 40}),
		BlockSamples: 250,
		Gain:         1,
		BitDepth:     16,
	}
}

func mustBuilder(t *testing.T, cfg Config) *Builder {
	t.Helper()
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func render(t *testing.T, b *Builder) []Frame {
	t.Helper()
	frames, err := b.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return frames
}

func drain(t *testing.T, s *Stream, batch int) []Frame {
	t.Helper()
	var out []Frame
	buf := make([]Frame, batch)
	for {
		n, err := s.Next(buf)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, buf[:n]...)
	}
}

func equalFrames(a, b []Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- End to end example: 1 kHz, 2 s, 250 sample blocks ---

func TestBlockedEndToEndExample(t *testing.T) {
	b := mustBuilder(t, exampleConfig())
	if b.TotalFrames() != 2000 {
		t.Fatalf("TotalFrames = %d, want 2000", b.TotalFrames())
	}
	frames := render(t, b)
	if len(frames) != 2000 {
		t.Fatalf("rendered %d frames, want 2000", len(frames))
	}

	blocks := 0
	var perChannel [channel.Count]int
	for start := 0; start < len(frames); start += 250 {
		blockIdx := start / 250
		for g := 0; g < channel.Groups; g++ {
			want := channel.Of(g, blockIdx%4)
			sounded := false
			for s := start; s < start+250; s++ {
				for slot := 0; slot < channel.GroupSize; slot++ {
					ch := channel.Of(g, slot)
					if frames[s][ch] != 0 && ch != want {
						t.Fatalf("sample %d: %v sounds inside the block of %v", s, ch, want)
					}
				}
				if frames[s][want] != 0 {
					sounded = true
				}
			}
			if !sounded {
				t.Errorf("block %d: %v never sounds", blockIdx, want)
			}
			perChannel[want]++
		}
		blocks++
	}
	if blocks != 8 {
		t.Errorf("counted %d blocks, want 8", blocks)
	}
	for ch, n := range perChannel {
		// each group cycles through its 4 fingers twice
		if n != 2 {
			t.Errorf("channel %d active in %d blocks, want 2", ch, n)
		}
	}
	// channel 0 in [0,250), channel 1 in [250,500)
	if frames[10][0] == 0 || frames[260][1] == 0 || frames[260][0] != 0 {
		t.Errorf("unexpected activity: %v %v", frames[10], frames[260])
	}
}

// --- Frame count ---

func TestFrameCount(t *testing.T) {
	tests := []struct {
		rate int
		dur  time.Duration
		want int64
	}{
		{1000, 2 * time.Second, 2000},
		{44100, time.Second, 44100},
		{44100, 10 * time.Millisecond, 441},
		{48000, 1500 * time.Millisecond, 72000},
		{1000, 0, 0},
	}
	for _, tt := range tests {
		cfg := exampleConfig()
		cfg.SampleRate = tt.rate
		cfg.Duration = tt.dur
		b := mustBuilder(t, cfg)
		got := int64(len(drain(t, b.Stream(), 333)))
		if got != tt.want || b.TotalFrames() != tt.want {
			t.Errorf("rate %d dur %v: produced %d, total %d, want %d", tt.rate, tt.dur, got, b.TotalFrames(), tt.want)
		}
	}
}

func TestZeroDurationIsEmpty(t *testing.T) {
	cfg := exampleConfig()
	cfg.Duration = 0
	b := mustBuilder(t, cfg)
	n, err := b.Stream().Next(make([]Frame, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("Next on empty stream = %d, %v; want 0, io.EOF", n, err)
	}
	if frames := render(t, b); len(frames) != 0 {
		t.Errorf("Render produced %d frames", len(frames))
	}
}

func TestBlockLongerThanStream(t *testing.T) {
	cfg := exampleConfig()
	cfg.Duration = time.Second
	cfg.BlockSamples = 5000
	b := mustBuilder(t, cfg)
	frames := render(t, b)
	if len(frames) != 1000 {
		t.Fatalf("got %d frames, want 1000", len(frames))
	}
	sounded := map[channel.Channel]bool{}
	for _, f := range frames {
		for _, ch := range channel.All() {
			if f[ch] != 0 {
				sounded[ch] = true
			}
		}
	}
	if len(sounded) != 2 || !sounded[channel.Of(0, 0)] || !sounded[channel.Of(1, 0)] {
		t.Errorf("sounding channels = %v, want only the first finger of each hand", sounded)
	}
	found := false
	for _, w := range cfg.Warnings() {
		if strings.Contains(w, "longer than") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings() = %v, want a long block warning", cfg.Warnings())
	}
}

// --- Streaming ---

func TestBatchSizeDoesNotMatter(t *testing.T) {
	for _, mode := range timing.Modes {
		cfg := exampleConfig()
		cfg.Mode = mode
		cfg.OffsetSamples = 13
		b := mustBuilder(t, cfg)
		want := render(t, b)
		for _, batch := range []int{1, 7, 256, 4096} {
			if got := drain(t, b.Stream(), batch); !equalFrames(got, want) {
				t.Errorf("%v: batch %d changes the stream", mode, batch)
			}
		}
	}
}

func TestWorkersDoNotChangeOutput(t *testing.T) {
	cfg := exampleConfig()
	cfg.Mode = timing.PhaseShifted
	cfg.Duration = 5 * time.Second
	want := render(t, mustBuilder(t, cfg))
	for _, w := range []int{2, 3, 8} {
		cfg.Workers = w
		b := mustBuilder(t, cfg)
		if got := drain(t, b.Stream(), 1500); !equalFrames(got, want) {
			t.Errorf("%d workers change the stream", w)
		}
	}
}

func TestDeterministicAcrossBuilders(t *testing.T) {
	cfg := exampleConfig()
	cfg.Shuffle = true
	cfg.Seed = 7
	a := render(t, mustBuilder(t, cfg))
	b := render(t, mustBuilder(t, cfg))
	if !equalFrames(a, b) {
		t.Error("two runs of the same configuration differ")
	}
}

func TestStreamRestartAndSeek(t *testing.T) {
	b := mustBuilder(t, exampleConfig())
	all := render(t, b)

	s := b.Stream()
	if err := s.Seek(777); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if s.Position() != 777 || s.Remaining() != 2000-777 || s.Total() != 2000 {
		t.Errorf("position bookkeeping wrong: %d %d %d", s.Position(), s.Remaining(), s.Total())
	}
	if rest := drain(t, s, 100); !equalFrames(rest, all[777:]) {
		t.Error("resumed stream differs from the full render")
	}
	if again := drain(t, b.Stream(), 100); !equalFrames(again, all) {
		t.Error("a fresh stream does not restart from frame 0")
	}

	var ie *stimerr.InvariantError
	if err := s.Seek(2001); !errors.As(err, &ie) {
		t.Errorf("Seek past the end = %v, want InvariantError", err)
	}
}

func TestInterleave(t *testing.T) {
	frames := []Frame{{1, 2, 3, 4, 5, 6, 7, 8}, {9, 10, 11, 12, 13, 14, 15, 16}}
	got := Interleave(make([]int32, 3), frames)
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	for i, v := range got {
		if v != int32(i+1) {
			t.Errorf("sample %d = %d, want %d", i, v, i+1)
		}
	}
}

// --- Configuration ---

func TestValidateEnumeratesFields(t *testing.T) {
	cfg := exampleConfig()
	cfg.Duration = -time.Second
	cfg.Block = 100 * time.Millisecond // set along with BlockSamples
	cfg.Gain = 2
	cfg.Workers = -1
	cfg.Layout.Groups[1].Frequency = 0

	err := cfg.Validate()
	var ce *stimerr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Validate = %v, want *stimerr.ConfigError", err)
	}
	for _, f := range []string{"duration", "block_length", "gain", "workers", "group1.frequency"} {
		if !ce.Has(f) {
			t.Errorf("missing %q in %v", f, ce.Fields)
		}
	}
	if _, err := New(cfg); !errors.As(err, &ce) {
		t.Errorf("New accepted an invalid configuration: %v", err)
	}
}

func TestDurationsConvertToSamples(t *testing.T) {
	cfg := Default()
	cfg.Duration = time.Second
	var errs stimerr.ConfigError
	p := cfg.Params(&errs)
	if errs.Err() != nil {
		t.Fatalf("default config invalid: %v", errs.Err())
	}
	// 222 ms and 100 ms at 44.1 kHz
	if p.BlockLength != 9790 || p.PulseWidth != 4410 {
		t.Errorf("block %d pulse %d, want 9790 and 4410", p.BlockLength, p.PulseWidth)
	}

	cfg.Mode = timing.FixedPhaseShifted
	p = cfg.Params(&errs)
	if p.FixedOffset != 1102 {
		// 25 ms * 44100 = 1102.5, rounded half to even
		t.Errorf("offset = %d, want 1102", p.FixedOffset)
	}
}

func TestPauseDefaultsToFourBlocks(t *testing.T) {
	cfg := exampleConfig()
	cfg.Duration = 4 * time.Second
	cfg.PausePeriod = 2
	cfg.Pauses = []int{1}
	frames := render(t, mustBuilder(t, cfg))
	// cycle = 4 blocks = 1000 samples, every second cycle is silent
	for s, f := range frames {
		paused := (s/1000)%2 == 1
		if paused && f != (Frame{}) {
			t.Fatalf("sample %d should be silent: %v", s, f)
		}
	}

	cfg.Mode = timing.PhaseShifted
	if err := cfg.Validate(); err == nil {
		t.Error("phase-shifted pauses need an explicit cycle length")
	}
	cfg.PauseCycle = 500 * time.Millisecond
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestWarnings(t *testing.T) {
	cfg := exampleConfig()
	if w := cfg.Warnings(); len(w) != 0 {
		// 250 samples at 40 Hz / 1 kHz is exactly 10 cycles
		t.Errorf("unexpected warnings %v", w)
	}
	cfg.Layout = channel.Symmetric(channel.GroupSettings{Frequency: 41})
	cfg.PausePeriod = 3
	cfg.Pauses = []int{5}
	w := strings.Join(cfg.Warnings(), "\n")
	if !strings.Contains(w, "mid-cycle") || !strings.Contains(w, "no effect") {
		t.Errorf("Warnings() = %q", w)
	}
}

func TestFingerprint(t *testing.T) {
	a := exampleConfig()
	b := exampleConfig()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal configurations have different fingerprints")
	}
	b.Layout.Groups[1].Mirror = true
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("mirroring does not change the fingerprint")
	}
	tags := a.Tags()
	for i := 1; i < len(tags); i++ {
		if tags[i-1][0] > tags[i][0] {
			t.Fatalf("tags not sorted: %v", tags)
		}
	}
}

func TestTableOscillator(t *testing.T) {
	cfg := exampleConfig()
	cfg.Mode = timing.PhaseShifted
	exact := render(t, mustBuilder(t, cfg))
	cfg.TableSize = 1 << 14
	table := render(t, mustBuilder(t, cfg))
	for i := range exact {
		for ch := range exact[i] {
			if d := exact[i][ch] - table[i][ch]; d > 2 || d < -2 {
				t.Fatalf("frame %d channel %d: table %d vs exact %d", i, ch, table[i][ch], exact[i][ch])
			}
		}
	}
}
