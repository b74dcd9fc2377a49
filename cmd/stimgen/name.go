package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/encode"
	"github.com/neurlang/gostim/synth"
	"github.com/neurlang/gostim/timing"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// millis renders a length given either in samples or as a duration.
func millis(cfg *synth.Config, samples int64, d time.Duration) string {
	if d == 0 && samples != 0 && cfg.SampleRate > 0 {
		d = time.Duration(samples) * time.Second / time.Duration(cfg.SampleRate)
	}
	return formatFloat(float64(d) / float64(time.Millisecond))
}

// fileName describes cfg, for example
// Sine-Blocked-250SFREQ-100SPER-222BLK-8CH-44100Hz-60s.flac
func fileName(cfg *synth.Config, c encode.Container) string {
	var sb strings.Builder
	sb.WriteString("Sine-")
	if cfg.Mode == timing.FixedPhaseShifted {
		sb.WriteString(millis(cfg, cfg.OffsetSamples, cfg.Offset))
	}
	sb.WriteString(cfg.Mode.Tag())
	sb.WriteString("-")

	sb.WriteString(formatFloat(cfg.Layout.Groups[0].Frequency))
	sb.WriteString("SFREQ-")
	if cfg.Mode == timing.Blocked {
		sb.WriteString(millis(cfg, cfg.PulseSamples, cfg.Pulse))
		sb.WriteString("SPER-")
		sb.WriteString(millis(cfg, cfg.BlockSamples, cfg.Block))
		sb.WriteString("BLK-")
	}

	if len(cfg.Pauses) > 0 && cfg.PausePeriod > 0 {
		for i, p := range cfg.Pauses {
			if i > 0 {
				sb.WriteString("_")
			}
			sb.WriteString(strconv.Itoa(p))
		}
		sb.WriteString("P")
		sb.WriteString(strconv.Itoa(cfg.PausePeriod))
		sb.WriteString("-")
	}
	if cfg.Shuffle {
		sb.WriteString(strconv.FormatUint(cfg.Seed, 10))
		sb.WriteString("RSEED-")
	}

	sb.WriteString(strconv.Itoa(channel.Count))
	sb.WriteString("CH-")
	sb.WriteString(strconv.Itoa(cfg.SampleRate))
	sb.WriteString("Hz-")
	sb.WriteString(formatFloat(cfg.Duration.Seconds()))
	sb.WriteString("s")
	sb.WriteString(c.Ext())
	return sb.String()
}
