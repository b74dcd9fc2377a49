package config

import (
	"os"
	"strconv"
	"time"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds the generator defaults, loaded from environment variables.
// Command line flags override every field.
type Config struct {
	// Signal
	SampleRate int
	Frequency  float64 // Hz, both hands
	Mode       string
	Duration   time.Duration

	// Timing
	Block  time.Duration
	Pulse  time.Duration
	Offset time.Duration

	// Output
	BitDepth    int
	Gain        float64
	ChunkFrames int
	OutputDir   string
	Format      string // flac or wav
	Workers     int
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		SampleRate: envInt("STIM_SAMPLE_RATE", 44100),
		Frequency:  envFloat("STIM_FREQUENCY", 250),
		Mode:       envStr("STIM_MODE", "blocked"),
		Duration:   time.Duration(envInt("STIM_DURATION", 60)) * time.Second,

		Block:  time.Duration(envInt("STIM_BLOCK_MS", 222)) * time.Millisecond,
		Pulse:  time.Duration(envInt("STIM_PULSE_MS", 100)) * time.Millisecond,
		Offset: time.Duration(envInt("STIM_OFFSET_MS", 25)) * time.Millisecond,

		BitDepth:    envInt("STIM_BIT_DEPTH", 16),
		Gain:        envFloat("STIM_GAIN", 1.0),
		ChunkFrames: envInt("STIM_CHUNK", 4096),
		OutputDir:   envStr("STIM_OUTPUT_DIR", "output"),
		Format:      envStr("STIM_FORMAT", "flac"),
		Workers:     envInt("STIM_WORKERS", 1),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
