package preview

import (
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/synth"
	"github.com/neurlang/gostim/timing"
)

// Pair streams two channels of a synth.Stream as left and right.
// It implements beep.StreamSeeker.
type Pair struct {
	src         *synth.Stream
	left, right channel.Channel
	scale       float64
	buf         []synth.Frame
	err         error
}

// NewPair wraps s; bits is the sample depth used to scale to [-1, 1].
func NewPair(s *synth.Stream, left, right channel.Channel, bits int) (*Pair, error) {
	if !left.Valid() || !right.Valid() {
		return nil, fmt.Errorf("preview: channels %d and %d must be in [0, %d)", int(left), int(right), channel.Count)
	}
	if bits < 2 || bits > 32 {
		return nil, fmt.Errorf("preview: bit depth %d out of range", bits)
	}
	return &Pair{
		src:   s,
		left:  left,
		right: right,
		scale: 1 / float64(timing.FullScale(bits)),
	}, nil
}

func (p *Pair) Stream(samples [][2]float64) (n int, ok bool) {
	if p.err != nil {
		return 0, false
	}
	if cap(p.buf) < len(samples) {
		p.buf = make([]synth.Frame, len(samples))
	}
	n, err := p.src.Next(p.buf[:len(samples)])
	if err == io.EOF {
		return 0, false
	}
	if err != nil {
		p.err = err
		return 0, false
	}
	for i, f := range p.buf[:n] {
		samples[i][0] = float64(f[p.left]) * p.scale
		samples[i][1] = float64(f[p.right]) * p.scale
	}
	return n, true
}

func (p *Pair) Err() error {
	return p.err
}

func (p *Pair) Len() int {
	return int(p.src.Total())
}

func (p *Pair) Position() int {
	return int(p.src.Position())
}

func (p *Pair) Seek(frame int) error {
	return p.src.Seek(int64(frame))
}

// SaveWav writes channels left and right of b as a stereo WAV file.
func SaveWav(w io.WriteSeeker, b *synth.Builder, left, right channel.Channel) error {
	p, err := NewPair(b.Stream(), left, right, b.BitDepth())
	if err != nil {
		return err
	}
	precision := 2
	if b.BitDepth() > 16 {
		precision = 3
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(b.SampleRate()),
		NumChannels: 2,
		Precision:   precision,
	}
	if err := wav.Encode(w, p, format); err != nil {
		return err
	}
	return p.Err()
}
