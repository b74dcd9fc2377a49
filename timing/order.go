package timing

import (
	"math/rand/v2"

	"github.com/neurlang/gostim/channel"
)

// Order is the sequence of slots activated within one cycle of a group.
type Order [channel.GroupSize]int

var roundRobin = Order{0, 1, 2, 3}

// order returns the slot order of the given cycle. Shuffled orders never
// start with the finger that ended the previous cycle; before cycle 0 every
// hand counts as having ended on slot 0.
func (p *Policy) order(group int, cycle int64) Order {
	if !p.shuffle {
		return roundRobin
	}
	o := p.shuffled(group, cycle)
	last := 0
	if cycle > 0 {
		// position 0 and 1 swaps never move the last slot, so the raw
		// permutation of the previous cycle has the same tail
		prev := p.shuffled(group, cycle-1)
		last = prev[len(prev)-1]
	}
	if o[0] == last {
		o[0], o[1] = o[1], o[0]
	}
	return o
}

func (p *Policy) shuffled(group int, cycle int64) Order {
	var src rand.PCG
	src.Seed(p.seed, uint64(cycle)<<1|uint64(group))
	o := roundRobin
	for i := len(o) - 1; i > 0; i-- {
		j := int(src.Uint64() % uint64(i+1))
		o[i], o[j] = o[j], o[i]
	}
	return o
}

// CycleOrder returns the slot order used by group during the given cycle.
func (p *Policy) CycleOrder(group int, cycle int64) Order {
	return p.order(group, cycle)
}
