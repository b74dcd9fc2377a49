// Package encode streams synthesized frames into a lossless audio container.
//
// The encoder boundary is the Sink interface: it receives chunks of interleaved
// integer samples in order. Two sinks are provided:
//   - FLACSink writes a FLAC stream with github.com/mewkiz/flac
//   - WAVSink writes multichannel PCM WAV with github.com/go-audio/wav
//
// Encode pulls chunks from a frame source, writes them and finalizes the sink.
// Write failures surface as *stimerr.EncodingError; the partial output is
// corrupt and left to the caller.
package encode
