// Package channel models the eight output channels of the stimulation device.
//
// Channels are split into two groups of four, one group per hand:
//   - channels 0..3 form group 0 (left hand), 4..7 form group 1 (right hand)
//   - the slot of a channel is its finger position within the group
//   - each group carries its own frequency, phase offset and mirroring
//
// Layout reconciles the per-group settings with the selected timing mode.
package channel
