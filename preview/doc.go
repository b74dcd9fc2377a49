// Package preview turns two channels of a stimulation into a stereo
// github.com/faiface/beep stream, for auditioning a pair of fingers.
package preview
