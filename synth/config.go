package synth

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/timing"
)

// Config is the user-facing description of a stimulation run.
// Lengths may be given in samples or as durations, not both.
type Config struct {
	SampleRate int
	Duration   time.Duration
	Mode       timing.Mode

	Layout channel.Layout

	BlockSamples  int64
	Block         time.Duration
	PulseSamples  int64 // 0 with Pulse unset means the whole block
	Pulse         time.Duration
	OffsetSamples int64
	Offset        time.Duration

	Gain     float64
	BitDepth int

	Shuffle bool
	Seed    uint64

	// PauseCycle defaults to four blocks in blocked mode.
	PauseCycle  time.Duration
	PausePeriod int
	Pauses      []int

	// TableSize selects a sine lookup table of that many entries, 0 uses math.Sin.
	TableSize int

	// Workers > 1 computes each batch in parallel.
	Workers int
}

// Default returns the stock configuration: 44.1 kHz, 250 Hz bursts of
// 100 ms, 222 ms blocks, 16-bit full scale.
func Default() Config {
	return Config{
		SampleRate: 44100,
		Duration:   time.Minute,
		Mode:       timing.Blocked,
		Layout:     channel.Symmetric(channel.GroupSettings{Frequency: 250}),
		Block:      222 * time.Millisecond,
		Pulse:      100 * time.Millisecond,
		Offset:     25 * time.Millisecond,
		Gain:       1,
		BitDepth:   16,
	}
}

// Samples converts d to a sample count at the configured rate, rounding half to even.
func (c *Config) Samples(d time.Duration) int64 {
	return int64(math.RoundToEven(d.Seconds() * float64(c.SampleRate)))
}

// TotalFrames is round(duration * sample rate).
func (c *Config) TotalFrames() int64 {
	if c.SampleRate <= 0 || c.Duration <= 0 {
		return 0
	}
	return int64(math.Round(c.Duration.Seconds() * float64(c.SampleRate)))
}

func (c *Config) length(errs *stimerr.ConfigError, name string, samples int64, d time.Duration) int64 {
	if samples != 0 && d != 0 {
		errs.Add(name, fmt.Sprintf("%d samples and %v", samples, d), "set either samples or a duration, not both")
		return 0
	}
	if d < 0 {
		errs.Add(name, d, "must not be negative")
		return 0
	}
	if d != 0 {
		return c.Samples(d)
	}
	return samples
}

// Params resolves the configuration into timing parameters and records
// every invalid field into errs.
func (c *Config) Params(errs *stimerr.ConfigError) timing.Params {
	p := timing.Params{
		SampleRate: c.SampleRate,
		Mode:       c.Mode,
		Gain:       c.Gain,
		BitDepth:   c.BitDepth,
		Layout:     c.Layout,
		Shuffle:    c.Shuffle,
		Seed:       c.Seed,
	}
	if c.Duration < 0 {
		errs.Add("duration", c.Duration, "must not be negative")
	}
	if c.Workers < 0 {
		errs.Add("workers", c.Workers, "must not be negative")
	}
	if c.TableSize < 0 {
		errs.Add("table_size", c.TableSize, "must not be negative")
	} else if c.TableSize > 0 {
		p.Oscillator = timing.NewSineTable(c.TableSize)
	}
	if c.SampleRate <= 0 {
		// lengths cannot be converted, Check reports the rate itself
		p.Check(errs)
		return p
	}
	switch c.Mode {
	case timing.Blocked:
		p.BlockLength = c.length(errs, "block_length", c.BlockSamples, c.Block)
		p.PulseWidth = c.length(errs, "pulse_width", c.PulseSamples, c.Pulse)
	case timing.PhaseShifted:
	case timing.FixedPhaseShifted:
		p.FixedOffset = c.length(errs, "fixed_offset", c.OffsetSamples, c.Offset)
	}
	if len(c.Pauses) > 0 {
		p.Pause = timing.Pause{
			CycleLength: c.length(errs, "pause_cycle_length", 0, c.PauseCycle),
			Period:      c.PausePeriod,
			Cycles:      append([]int(nil), c.Pauses...),
		}
		if p.Pause.CycleLength == 0 && c.Mode == timing.Blocked {
			p.Pause.CycleLength = p.BlockLength * channel.GroupSize
		}
	}
	p.Check(errs)
	return p
}

// Validate reports every invalid field as a *stimerr.ConfigError.
func (c *Config) Validate() error {
	var errs stimerr.ConfigError
	c.Params(&errs)
	return errs.Err()
}

// Warnings lists accepted but suspicious settings.
func (c *Config) Warnings() []string {
	var errs stimerr.ConfigError
	p := c.Params(&errs)
	if errs.Err() != nil {
		return nil
	}
	var out []string
	if p.Mode == timing.Blocked {
		pulse := p.PulseWidth
		if pulse == 0 {
			pulse = p.BlockLength
		}
		for g, s := range p.Layout.Groups {
			cycles := float64(pulse) * s.Frequency / float64(p.SampleRate)
			if math.Abs(cycles-math.Round(cycles)) > 1e-9 {
				out = append(out, fmt.Sprintf("%s: burst of %d samples ends mid-cycle at %v Hz (%.3f cycles)", channel.GroupName(g), pulse, s.Frequency, cycles))
			}
		}
		if total := c.TotalFrames(); total > 0 && p.BlockLength > total {
			out = append(out, fmt.Sprintf("block of %d samples is longer than the %d sample output, only the first finger of each hand plays", p.BlockLength, total))
		}
	}
	for _, idx := range p.Pause.Ineffective() {
		out = append(out, fmt.Sprintf("pause on cycle %d has no effect with a pause period of %d", idx, p.Pause.Period))
	}
	return out
}

// Tags returns the configuration as sorted key/value pairs.
func (c *Config) Tags() [][2]string {
	var errs stimerr.ConfigError
	p := c.Params(&errs)
	tags := [][2]string{
		{"STIM_MODE", c.Mode.String()},
		{"STIM_SAMPLE_RATE", strconv.Itoa(c.SampleRate)},
		{"STIM_FRAMES", strconv.FormatInt(c.TotalFrames(), 10)},
		{"STIM_BIT_DEPTH", strconv.Itoa(c.BitDepth)},
		{"STIM_GAIN", strconv.FormatFloat(c.Gain, 'g', -1, 64)},
		{"STIM_BLOCK", strconv.FormatInt(p.BlockLength, 10)},
		{"STIM_PULSE", strconv.FormatInt(p.PulseWidth, 10)},
		{"STIM_OFFSET", strconv.FormatInt(p.FixedOffset, 10)},
		{"STIM_TABLE", strconv.Itoa(c.TableSize)},
	}
	for g, s := range c.Layout.Groups {
		prefix := "STIM_" + strings.ToUpper(channel.GroupName(g))
		tags = append(tags,
			[2]string{prefix + "_FREQUENCY", strconv.FormatFloat(s.Frequency, 'g', -1, 64)},
			[2]string{prefix + "_PHASE", strconv.FormatFloat(s.PhaseOffset, 'g', -1, 64)},
			[2]string{prefix + "_MIRROR", strconv.FormatBool(s.Mirror)},
		)
	}
	if c.Shuffle {
		tags = append(tags, [2]string{"STIM_SEED", strconv.FormatUint(c.Seed, 10)})
	}
	if p.Pause.Enabled() {
		var idx = make([]string, len(p.Pause.Cycles))
		for i, v := range p.Pause.Cycles {
			idx[i] = strconv.Itoa(v)
		}
		tags = append(tags,
			[2]string{"STIM_PAUSE_CYCLE", strconv.FormatInt(p.Pause.CycleLength, 10)},
			[2]string{"STIM_PAUSE_PERIOD", strconv.Itoa(p.Pause.Period)},
			[2]string{"STIM_PAUSES", strings.Join(idx, ",")},
		)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i][0] < tags[j][0] })
	return tags
}

// Fingerprint is a canonical text form of everything that affects the PCM output.
func (c *Config) Fingerprint() string {
	var sb strings.Builder
	for _, t := range c.Tags() {
		sb.WriteString(t[0])
		sb.WriteByte('=')
		sb.WriteString(t[1])
		sb.WriteByte('\n')
	}
	return sb.String()
}
