// Command stimgen renders an 8 channel vibrotactile stimulation file.
//
// Four channels drive the fingers of each hand. In blocked mode one finger per
// hand plays a sine burst at a time, in round robin or seeded shuffled order.
// The phase modes keep all fingers running, shifted by a quarter cycle or by a
// fixed delay.
//
// Usage:
//
//	stimgen [-mode blocked|phase|fixed] [-duration 60s] [-freq 250] [-block 222] [-pulse 100] ...
//
// Defaults come from STIM_* environment variables. The output is written to
// the output directory under a name describing the parameters, unless -o is
// given. Repeat -v for more log output.
package main
