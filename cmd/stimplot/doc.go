// Command stimplot renders the channel activity of a generated FLAC file as a
// PNG image.
//
// Every channel is a horizontal band, left hand in red and right hand in green;
// brightness is the log STFT energy of each analysis frame.
//
// Usage:
//
//	stimplot [-raw] [-step 10] <file.flac>
//
// The output PNG file will be named <file.flac>.png; -raw also writes the
// energy values as half precision floats to <file.flac>.f16
package main
