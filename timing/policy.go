package timing

import (
	"math"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
)

// Params is the validated input of a Policy. All lengths are in samples.
type Params struct {
	SampleRate int
	Mode       Mode

	// BlockLength is the length of one finger's block in Blocked mode.
	BlockLength int64
	// PulseWidth limits the burst inside a block, 0 means the whole block.
	PulseWidth int64
	// FixedOffset is the per-slot delay in FixedPhaseShifted mode.
	FixedOffset int64

	Gain     float64
	BitDepth int

	Layout channel.Layout

	// Shuffle randomizes the finger order of every Blocked cycle from Seed.
	Shuffle bool
	Seed    uint64

	Pause Pause

	// Oscillator defaults to Sine.
	Oscillator Oscillator
}

// Policy evaluates the amplitude of every channel at every sample index.
// It holds no mutable state and is safe for concurrent use.
type Policy struct {
	rate    float64
	mode    Mode
	block   int64
	pulse   int64
	offset  int64
	gain    float64
	bits    int
	layout  channel.Layout
	shuffle bool
	seed    uint64
	pause   Pause
	osc     Oscillator
}

// Check records every invalid parameter into errs.
func (p *Params) Check(errs *stimerr.ConfigError) {
	if p.SampleRate <= 0 {
		errs.Add("sample_rate", p.SampleRate, "must be positive")
	}
	if !p.Mode.Valid() {
		errs.Add("mode", int(p.Mode), "unknown mode")
	}
	if p.BitDepth != 8 && p.BitDepth != 16 && p.BitDepth != 24 {
		errs.Add("bit_depth", p.BitDepth, "must be 8, 16 or 24")
	}
	if math.IsNaN(p.Gain) || p.Gain <= 0 || p.Gain > 1 {
		errs.Add("gain", p.Gain, "must be in (0, 1]")
	}
	p.Layout.Check(errs)
	if p.SampleRate > 0 {
		nyquist := float64(p.SampleRate) / 2
		for g, s := range p.Layout.Groups {
			if s.Frequency >= nyquist {
				errs.Add(channel.GroupName(g)+".frequency", s.Frequency, "must be below half the sample rate")
			}
		}
	}
	switch p.Mode {
	case Blocked:
		if p.BlockLength <= 0 {
			errs.Add("block_length", p.BlockLength, "must be positive in blocked mode")
		}
		if p.PulseWidth < 0 {
			errs.Add("pulse_width", p.PulseWidth, "must not be negative")
		} else if p.BlockLength > 0 && p.PulseWidth > p.BlockLength {
			errs.Add("pulse_width", p.PulseWidth, "must not exceed the block length")
		}
	case PhaseShifted:
	case FixedPhaseShifted:
		if p.FixedOffset < 0 {
			errs.Add("fixed_offset", p.FixedOffset, "must not be negative")
		}
	}
	if p.Shuffle && p.Mode != Blocked {
		errs.Add("shuffle", p.Shuffle, "only applies to blocked mode")
	}
	p.Pause.check(errs)
}

// NewPolicy validates p and returns the policy it describes.
func NewPolicy(p Params) (*Policy, error) {
	var errs stimerr.ConfigError
	p.Check(&errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	pol := &Policy{
		rate:    float64(p.SampleRate),
		mode:    p.Mode,
		block:   p.BlockLength,
		pulse:   p.PulseWidth,
		offset:  p.FixedOffset,
		gain:    p.Gain,
		bits:    p.BitDepth,
		layout:  p.Layout,
		shuffle: p.Shuffle,
		seed:    p.Seed,
		pause:   p.Pause,
		osc:     p.Oscillator,
	}
	pol.pause.Cycles = append([]int(nil), p.Pause.Cycles...)
	if pol.pulse == 0 {
		pol.pulse = pol.block
	}
	if pol.osc == nil {
		pol.osc = Sine{}
	}
	return pol, nil
}

// Mode returns the policy's timing mode.
func (p *Policy) Mode() Mode {
	return p.mode
}

// BitDepth returns the integer sample depth.
func (p *Policy) BitDepth() int {
	return p.bits
}

// Active reports whether ch is permitted to sound at sample s.
// Phase modes keep every channel active once it has started.
func (p *Policy) Active(ch channel.Channel, s int64) bool {
	if s < 0 || !ch.Valid() || p.pause.Paused(s) {
		return false
	}
	slot := p.layout.SlotOf(ch)
	switch p.mode {
	case Blocked:
		block := s / p.block
		if p.order(ch.Group(), block/channel.GroupSize)[block%channel.GroupSize] != slot {
			return false
		}
		return s-block*p.block < p.pulse
	case PhaseShifted:
		return true
	case FixedPhaseShifted:
		return s >= int64(slot)*p.offset
	}
	return false
}

// Amplitude returns the waveform value of ch at sample s, in [-1, 1].
func (p *Policy) Amplitude(ch channel.Channel, s int64) float64 {
	if !p.Active(ch, s) {
		return 0
	}
	g := p.layout.Settings(ch)
	slot := p.layout.SlotOf(ch)
	switch p.mode {
	case Blocked:
		rel := s % p.block
		return p.osc.Value(float64(rel)*g.Frequency/p.rate + g.PhaseOffset)
	case PhaseShifted:
		return p.osc.Value(float64(s)*g.Frequency/p.rate + float64(slot)/channel.GroupSize + g.PhaseOffset)
	case FixedPhaseShifted:
		shifted := s - int64(slot)*p.offset
		return p.osc.Value(float64(shifted)*g.Frequency/p.rate + g.PhaseOffset)
	}
	return 0
}

// Sample returns the quantized amplitude of ch at sample s.
func (p *Policy) Sample(ch channel.Channel, s int64) int32 {
	return Quantize(p.Amplitude(ch, s), p.gain, p.bits)
}
