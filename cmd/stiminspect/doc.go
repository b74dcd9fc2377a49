// Command stiminspect decodes a generated FLAC file and reports, per channel,
// the bursts it contains and their dominant frequency.
//
// Usage:
//
//	stiminspect [-gap 2] [-runs 8] <file.flac>
//
// Use it to check a rendered file against the parameters stored in its tags.
package main
