package encode

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/neurlang/gostim/stimerr"
)

// Format describes the PCM handed to a sink.
type Format struct {
	Channels    int
	SampleRate  int
	BitDepth    int
	TotalFrames int64
}

// Sink is the boundary to an external encoder.
type Sink interface {
	// WriteChunk writes interleaved samples, a whole number of frames.
	WriteChunk(samples []int32) error
	// Close finalizes the container.
	Close() error
}

// Container selects the output file format.
type Container int

const (
	FLAC Container = iota
	WAV
)

func (c Container) String() string {
	switch c {
	case FLAC:
		return "flac"
	case WAV:
		return "wav"
	}
	return fmt.Sprintf("Container(%d)", int(c))
}

// Ext is the file name extension, including the dot.
func (c Container) Ext() string {
	return "." + c.String()
}

// ParseContainer accepts "flac" or "wav".
func ParseContainer(s string) (Container, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "flac":
		return FLAC, nil
	case "wav", "wave":
		return WAV, nil
	}
	return 0, fmt.Errorf("unknown container %q (want flac or wav)", s)
}

// ContainerFor picks the container from a file name extension, FLAC by default.
func ContainerFor(path string) Container {
	if c, err := ParseContainer(filepath.Ext(path)); err == nil {
		return c
	}
	return FLAC
}

// NewSink opens the sink for container c on w. WAV output needs w to be an io.WriteSeeker.
func NewSink(w io.Writer, f Format, c Container, opts Options) (Sink, error) {
	switch c {
	case FLAC:
		s, err := NewFLACSink(w, f, FLACOptions{BlockSize: opts.chunk(), Vendor: opts.Vendor, Tags: opts.Tags})
		if err != nil {
			return nil, err
		}
		return s, nil
	case WAV:
		ws, ok := w.(io.WriteSeeker)
		if !ok {
			return nil, fmt.Errorf("wav output needs a seekable writer, got %T", w)
		}
		s, err := NewWAVSink(ws, f)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	var errs stimerr.ConfigError
	errs.Add("container", int(c), "unknown container")
	return nil, errs.Err()
}

func checkChunk(samples []int32, channels int) (int, error) {
	if len(samples)%channels != 0 {
		return 0, &stimerr.InvariantError{What: "interleaved samples per chunk", Want: int64(len(samples) - len(samples)%channels), Got: int64(len(samples))}
	}
	return len(samples) / channels, nil
}
