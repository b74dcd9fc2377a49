package timing

import "github.com/neurlang/gostim/stimerr"

// Pause silences whole cycles. Every Period cycles, the cycles whose index
// within the period is listed in Cycles produce no output.
type Pause struct {
	CycleLength int64 // samples per cycle
	Period      int   // cycles per pause period
	Cycles      []int // paused cycle indices within the period
}

// Enabled reports whether any cycle is paused.
func (p *Pause) Enabled() bool {
	return p.Period > 0 && len(p.Cycles) > 0
}

// Paused reports whether sample s falls into a paused cycle.
func (p *Pause) Paused(s int64) bool {
	if !p.Enabled() || p.CycleLength <= 0 {
		return false
	}
	idx := int((s / p.CycleLength) % int64(p.Period))
	for _, c := range p.Cycles {
		if c == idx {
			return true
		}
	}
	return false
}

// Ineffective returns the paused indices that can never match.
func (p *Pause) Ineffective() []int {
	var out []int
	for _, c := range p.Cycles {
		if c >= p.Period {
			out = append(out, c)
		}
	}
	return out
}

func (p *Pause) check(errs *stimerr.ConfigError) {
	if len(p.Cycles) == 0 {
		return
	}
	if p.Period <= 0 {
		errs.Add("pause_period", p.Period, "must be positive when pauses are set")
	}
	if p.CycleLength <= 0 {
		errs.Add("pause_cycle_length", p.CycleLength, "must be positive when pauses are set")
	}
	for _, c := range p.Cycles {
		if c < 0 {
			errs.Add("pauses", c, "paused cycle index must not be negative")
		}
	}
}
