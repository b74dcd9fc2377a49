package synth

import (
	"io"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/timing"
	"golang.org/x/sync/errgroup"
)

// Frame holds one sample of every channel, in channel order.
type Frame [channel.Count]int32

// minParallelFrames is the smallest batch worth splitting between workers.
const minParallelFrames = 1024

// Builder produces the frames of one validated configuration.
type Builder struct {
	cfg     Config
	policy  *timing.Policy
	total   int64
	workers int
}

// New validates cfg and returns its builder.
func New(cfg Config) (*Builder, error) {
	var errs stimerr.ConfigError
	params := cfg.Params(&errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	policy, err := timing.NewPolicy(params)
	if err != nil {
		return nil, err
	}
	cfg.Pauses = append([]int(nil), cfg.Pauses...)
	return &Builder{
		cfg:     cfg,
		policy:  policy,
		total:   cfg.TotalFrames(),
		workers: cfg.Workers,
	}, nil
}

// Config returns the configuration the builder was created from.
func (b *Builder) Config() Config {
	return b.cfg
}

// Policy returns the timing policy evaluated for every sample.
func (b *Builder) Policy() *timing.Policy {
	return b.policy
}

// TotalFrames is the number of frames every stream yields.
func (b *Builder) TotalFrames() int64 {
	return b.total
}

// SampleRate in Hz.
func (b *Builder) SampleRate() int {
	return b.cfg.SampleRate
}

// BitDepth of the integer samples.
func (b *Builder) BitDepth() int {
	return b.cfg.BitDepth
}

// Frame computes the frame at sample index s.
func (b *Builder) Frame(s int64) (f Frame) {
	for _, ch := range channel.All() {
		f[ch] = b.policy.Sample(ch, s)
	}
	return f
}

// Stream returns a new stream positioned at the first frame.
func (b *Builder) Stream() *Stream {
	return &Stream{b: b}
}

// Render materializes the whole stream. Meant for short runs and tests.
func (b *Builder) Render() ([]Frame, error) {
	frames := make([]Frame, b.total)
	if err := b.fill(frames, 0); err != nil {
		return nil, err
	}
	return frames, nil
}

func (b *Builder) fill(dst []Frame, start int64) error {
	if end := start + int64(len(dst)); start < 0 || end > b.total {
		return &stimerr.InvariantError{What: "frame range end", Want: b.total, Got: end}
	}
	if b.workers <= 1 || len(dst) < minParallelFrames {
		b.fillRange(dst, start)
		return nil
	}
	var g errgroup.Group
	per := (len(dst) + b.workers - 1) / b.workers
	for lo := 0; lo < len(dst); lo += per {
		part := dst[lo:min(lo+per, len(dst))]
		first := start + int64(lo)
		g.Go(func() error {
			b.fillRange(part, first)
			return nil
		})
	}
	return g.Wait()
}

func (b *Builder) fillRange(dst []Frame, start int64) {
	for i := range dst {
		dst[i] = b.Frame(start + int64(i))
	}
}

// Stream is a lazy, finite sequence of frames. It is not safe for concurrent use.
type Stream struct {
	b   *Builder
	pos int64
}

// Next fills buf with the following frames and returns how many were written.
// It returns 0, io.EOF once every frame has been produced.
func (s *Stream) Next(buf []Frame) (int, error) {
	remaining := s.b.total - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := len(buf)
	if int64(n) > remaining {
		n = int(remaining)
	}
	if err := s.b.fill(buf[:n], s.pos); err != nil {
		return 0, err
	}
	s.pos += int64(n)
	return n, nil
}

// Position is the index of the next frame Next will produce.
func (s *Stream) Position() int64 {
	return s.pos
}

// Remaining is the number of frames not yet produced.
func (s *Stream) Remaining() int64 {
	return s.b.total - s.pos
}

// Total is the number of frames of the full stream.
func (s *Stream) Total() int64 {
	return s.b.total
}

// Seek moves the stream so the next frame produced is frame.
func (s *Stream) Seek(frame int64) error {
	if frame < 0 || frame > s.b.total {
		return &stimerr.InvariantError{What: "seek position", Want: s.b.total, Got: frame}
	}
	s.pos = frame
	return nil
}

// Interleave appends the samples of frames to dst[:0] in frame then channel order.
func Interleave(dst []int32, frames []Frame) []int32 {
	dst = dst[:0]
	for i := range frames {
		dst = append(dst, frames[i][:]...)
	}
	return dst
}
