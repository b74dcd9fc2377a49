// Package analysis decodes generated FLAC files and measures what they contain.
//
// It is used to verify output independently of the synthesizer:
//   - DecodeFLAC and OpenFLAC read every channel back as integer samples
//   - ActiveRuns finds the bursts of a channel
//   - DominantFrequency estimates the tone of a burst with an FFT
//   - EnergyMap computes per channel STFT energy over time
//   - WritePNG renders an energy map as an activity image, WriteBuffer dumps it
//     as half precision floats
package analysis
