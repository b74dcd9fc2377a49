package analysis

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/x448/float16"
)

// RowHeight is the height in pixels of one channel in an activity image.
const RowHeight = 8

// Image renders an energy map with one row band per channel and one column
// per analysis frame. Values are normalized per image; left hand channels are
// drawn in red, right hand channels in green.
func Image(energy [][]float64) *image.RGBA {
	width := 0
	for _, row := range energy {
		if len(row) > width {
			width = len(row)
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, len(energy)*RowHeight))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range energy {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo
	if span <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		span = 1
	}
	half := len(energy) / 2
	for ch, row := range energy {
		for x, v := range row {
			val := uint8(255 * (v - lo) / span)
			col := color.RGBA{A: 255}
			if ch < half {
				col.R = val
			} else {
				col.G = val
			}
			col.B = val / 2
			for y := ch * RowHeight; y < (ch+1)*RowHeight-1; y++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
	return img
}

// WritePNG encodes Image(energy) to w.
func WritePNG(w io.Writer, energy [][]float64) error {
	return png.Encode(w, Image(energy))
}

// Buffer flattens energy channel by channel into IEEE 754 half precision bits.
func Buffer(energy [][]float64) []uint16 {
	var out []uint16
	for _, row := range energy {
		for _, v := range row {
			out = append(out, float16.Fromfloat32(float32(v)).Bits())
		}
	}
	return out
}

// WriteBuffer writes Buffer(energy) to w in little endian order.
func WriteBuffer(w io.Writer, energy [][]float64) error {
	return binary.Write(w, binary.LittleEndian, Buffer(energy))
}
