package channel

import (
	"math"

	"github.com/neurlang/gostim/stimerr"
)

// GroupSettings are the per-hand timing parameters.
type GroupSettings struct {
	// Frequency of the stimulation waveform in Hz.
	Frequency float64
	// PhaseOffset shifts the whole group by a fraction of a cycle, in [0, 1).
	PhaseOffset float64
	// Mirror reverses the slot order, so finger 4 leads instead of finger 1.
	Mirror bool
}

// Layout binds settings to both groups.
type Layout struct {
	Groups [Groups]GroupSettings

	// AllowAsymmetric permits the two hands to use different settings.
	AllowAsymmetric bool
}

// Symmetric returns a layout where both groups share the same settings.
func Symmetric(g GroupSettings) Layout {
	return Layout{Groups: [Groups]GroupSettings{g, g}}
}

// Settings returns the settings of the group that owns c.
func (l *Layout) Settings(c Channel) GroupSettings {
	return l.Groups[c.Group()]
}

// SlotOf returns the slot c uses for timing, honouring group mirroring.
func (l *Layout) SlotOf(c Channel) int {
	if l.Groups[c.Group()].Mirror {
		return GroupSize - 1 - c.Slot()
	}
	return c.Slot()
}

// Check records every inconsistency of the layout into errs.
func (l *Layout) Check(errs *stimerr.ConfigError) {
	for g, s := range l.Groups {
		field := GroupName(g)
		if math.IsNaN(s.Frequency) || math.IsInf(s.Frequency, 0) || s.Frequency <= 0 {
			errs.Add(field+".frequency", s.Frequency, "must be a positive finite frequency")
		}
		if math.IsNaN(s.PhaseOffset) || s.PhaseOffset < 0 || s.PhaseOffset >= 1 {
			errs.Add(field+".phase_offset", s.PhaseOffset, "must be a cycle fraction in [0, 1)")
		}
	}
	if l.AllowAsymmetric {
		return
	}
	a, b := l.Groups[0], l.Groups[1]
	if a.Frequency != b.Frequency {
		errs.Add(GroupName(1)+".frequency", b.Frequency, "differs from group 0 and asymmetric groups are not allowed")
	}
	if a.PhaseOffset != b.PhaseOffset {
		errs.Add(GroupName(1)+".phase_offset", b.PhaseOffset, "differs from group 0 and asymmetric groups are not allowed")
	}
}

// GroupName is the configuration prefix of group g.
func GroupName(g int) string {
	if g == 0 {
		return "group0"
	}
	return "group1"
}
