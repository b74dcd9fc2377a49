package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/neurlang/gostim/stimerr"
	"github.com/r9y9/gossp/stft"
)

// DominantFrequency estimates the strongest tone in samples, in Hz.
// It returns 0 for silence.
func DominantFrequency(samples []int32, sampleRate int) float64 {
	if len(samples) < 4 || sampleRate <= 0 {
		return 0
	}
	buf := make([]float64, len(samples))
	for i, v := range samples {
		buf[i] = float64(v)
	}
	spectrum := fft.FFTReal(buf)

	half := len(spectrum) / 2
	best, bestMag := 0, 0.0
	mags := make([]float64, half+1)
	for k := 1; k <= half; k++ {
		mags[k] = cmplx.Abs(spectrum[k])
		if mags[k] > bestMag {
			best, bestMag = k, mags[k]
		}
	}
	if best == 0 {
		return 0
	}
	bin := float64(best)
	// parabolic peak interpolation
	if best > 1 && best < half {
		a, b, c := mags[best-1], mags[best], mags[best+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return bin * float64(sampleRate) / float64(len(samples))
}

// EnergyMap computes, for every channel, the STFT energy of each analysis
// frame. Samples are scaled to [-1, 1] by the recording's bit depth.
func EnergyMap(rec *Recording, frameShift, frameLen int) ([][]float64, error) {
	var errs stimerr.ConfigError
	if frameShift <= 0 {
		errs.Add("frame_shift", frameShift, "must be positive")
	}
	if frameLen <= 0 {
		errs.Add("frame_len", frameLen, "must be positive")
	}
	if rec.BitDepth <= 0 {
		errs.Add("bit_depth", rec.BitDepth, "must be positive")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	scale := 1 / float64(int64(1)<<(rec.BitDepth-1))
	s := stft.New(frameShift, frameLen)

	out := make([][]float64, len(rec.Channels))
	for ch, samples := range rec.Channels {
		buf := make([]float64, len(samples))
		for i, v := range samples {
			buf[i] = float64(v) * scale
		}
		buf = pad(buf, frameLen)
		spectrum := s.STFT(buf)
		energy := make([]float64, len(spectrum))
		for i := range spectrum {
			var sum float64
			for j := 0; j <= frameLen/2 && j < len(spectrum[i]); j++ {
				v := spectrum[i][j]
				sum += real(v)*real(v) + imag(v)*imag(v)
			}
			energy[i] = sum / float64(frameLen)
		}
		out[ch] = energy
	}
	return out, nil
}

// pad extends buf with silence to at least one analysis frame.
func pad(buf []float64, frameLen int) []float64 {
	for len(buf) < frameLen {
		buf = append(buf, 0)
	}
	return buf
}

// LogScale replaces every energy with its natural log, flooring at 1e-5.
func LogScale(energy [][]float64) {
	for _, row := range energy {
		for i := range row {
			if row[i] < 1e-5 {
				row[i] = 1e-5
			}
			row[i] = math.Log(row[i])
		}
	}
}
