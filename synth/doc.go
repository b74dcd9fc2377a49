// Package synth builds the PCM frame stream of a stimulation run.
//
// A Config is validated once into a Builder. The Builder hands out lazy,
// restartable streams of eight-channel frames:
//   - the frame count is round(duration * sample rate)
//   - frames come out in strictly increasing sample order, whatever batch size is used
//   - streams can seek, so a failed run can resume from any frame
//   - batches can be computed by several workers without changing the output
package synth
