// Package timing implements the timing mode policy of the stimulation generator.
//
// A Policy maps (channel, sample index) to an amplitude without keeping any
// state, so the same parameters always produce the same stream. It supports:
//   - Blocked (interleaved) stimulation: one finger per hand at a time, round robin
//     or in a seeded shuffled order per cycle
//   - Phase-shifted stimulation: all fingers active, a quarter cycle apart
//   - Fixed-phase-shifted stimulation: all fingers active, a fixed number of
//     samples apart, silent until each finger's start
//   - Pause schedules that silence whole cycles
//   - Quantization to integer PCM with round-half-to-even
package timing
