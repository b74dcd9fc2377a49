package timing

import "math"

// FullScale returns the largest positive sample value for the bit depth.
func FullScale(bits int) int32 {
	return int32(int64(1)<<(bits-1) - 1)
}

// Quantize scales v in [-1, 1] by gain to the bit depth, rounding half to even.
// Values outside [-1, 1] are clamped first.
func Quantize(v, gain float64, bits int) int32 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	q := math.RoundToEven(v * gain * float64(FullScale(bits)))
	if q == 0 {
		return 0
	}
	return int32(q)
}
