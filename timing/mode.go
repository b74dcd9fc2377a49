package timing

import (
	"fmt"
	"strings"
)

// Mode selects how the channels of a group are activated over time.
type Mode int

const (
	// Blocked activates one channel per group in non-overlapping blocks.
	Blocked Mode = iota
	// PhaseShifted keeps all channels active, spaced a quarter cycle apart.
	PhaseShifted
	// FixedPhaseShifted keeps all channels active, spaced a fixed number of samples apart.
	FixedPhaseShifted
)

// Modes lists every mode.
var Modes = [...]Mode{Blocked, PhaseShifted, FixedPhaseShifted}

func (m Mode) String() string {
	switch m {
	case Blocked:
		return "blocked"
	case PhaseShifted:
		return "phase-shifted"
	case FixedPhaseShifted:
		return "fixed-phase-shifted"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Tag is the short name used in output file names.
func (m Mode) Tag() string {
	switch m {
	case Blocked:
		return "Blocked"
	case PhaseShifted:
		return "PhaseShifted"
	case FixedPhaseShifted:
		return "FixedPhaseShifted"
	}
	return "Unknown"
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	return m >= Blocked && m <= FixedPhaseShifted
}

// ParseMode accepts the mode names used on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocked", "interleaved":
		return Blocked, nil
	case "phase", "phase-shifted", "phaseshifted":
		return PhaseShifted, nil
	case "fixed", "fixed-phase-shifted", "fixedphaseshifted":
		return FixedPhaseShifted, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want blocked, phase-shifted or fixed-phase-shifted)", s)
}
