package channel

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Count is the number of output channels.
	Count = 8
	// Groups is the number of independent channel groups (hands).
	Groups = 2
	// GroupSize is the number of channels (fingers) in each group.
	GroupSize = Count / Groups
)

// Side is the hand a group drives.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Channel is a global output channel index in [0, Count).
type Channel int

// All returns every channel in output order.
func All() [Count]Channel {
	var all [Count]Channel
	for i := range all {
		all[i] = Channel(i)
	}
	return all
}

// Of returns the channel at the given slot of a group.
func Of(group, slot int) Channel {
	return Channel(group*GroupSize + slot)
}

// Valid reports whether c is one of the eight output channels.
func (c Channel) Valid() bool {
	return c >= 0 && c < Count
}

// Group returns 0 for the left hand, 1 for the right.
func (c Channel) Group() int {
	return int(c) / GroupSize
}

// Slot returns the finger position within the group, 0..3.
func (c Channel) Slot() int {
	return int(c) % GroupSize
}

// Side mirrors the group.
func (c Channel) Side() Side {
	return Side(c.Group())
}

func (c Channel) String() string {
	return fmt.Sprintf("%s%d", c.Side().String()[:1], c.Slot()+1)
}

// Parse accepts a channel name such as "l1" or "R4", or a bare index "0".."7".
func Parse(s string) (Channel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if c := Channel(n); c.Valid() {
			return c, nil
		}
		return 0, fmt.Errorf("channel index %d out of range", n)
	}
	if len(s) == 2 && (s[0] == 'l' || s[0] == 'r') && s[1] >= '1' && s[1] <= '0'+GroupSize {
		group := 0
		if s[0] == 'r' {
			group = 1
		}
		return Of(group, int(s[1]-'1')), nil
	}
	return 0, fmt.Errorf("unknown channel %q (want l1..l4, r1..r4 or 0..7)", s)
}
