package timing

import "math"

// Oscillator returns a waveform value in [-1, 1] for a position measured in cycles.
type Oscillator interface {
	Value(cycles float64) float64
}

// Sine is the exact sine oscillator.
type Sine struct{}

func (Sine) Value(cycles float64) float64 {
	_, frac := math.Modf(cycles)
	return math.Sin(2 * math.Pi * frac)
}

const minTableSize = 16

// SineTable is a precomputed sine lookup table with linear interpolation.
// It is immutable once built and can be shared between policies.
type SineTable struct {
	values []float64
	mask   int
}

// NewSineTable builds a table of size entries, rounded up to a power of two.
func NewSineTable(size int) *SineTable {
	n := minTableSize
	for n < size {
		n <<= 1
	}
	t := &SineTable{values: make([]float64, n), mask: n - 1}
	for i := range t.values {
		t.values[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}
	return t
}

// Size returns the number of table entries.
func (t *SineTable) Size() int {
	return len(t.values)
}

func (t *SineTable) Value(cycles float64) float64 {
	frac := cycles - math.Floor(cycles)
	pos := frac * float64(len(t.values))
	i := int(pos)
	w := pos - float64(i)
	a := t.values[i&t.mask]
	b := t.values[(i+1)&t.mask]
	return a + (b-a)*w
}
