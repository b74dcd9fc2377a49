package encode

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/synth"
	"github.com/pion/logging"
)

// Vendor is written into the FLAC VORBIS_COMMENT block.
const Vendor = "gostim"

// FrameSource yields frames in order until io.EOF.
type FrameSource interface {
	Next(buf []synth.Frame) (int, error)
	Position() int64
	Total() int64
}

// Options control chunking, metadata and reporting.
type Options struct {
	// ChunkFrames is the number of frames per chunk, DefaultBlockSize when 0.
	ChunkFrames int
	Container   Container
	Vendor      string
	Tags        [][2]string
	// Progress is called after every chunk.
	Progress func(done, total int64)
	// Log may be nil.
	Log logging.LeveledLogger
}

func (o *Options) chunk() int {
	if o.ChunkFrames == 0 {
		return DefaultBlockSize
	}
	return o.ChunkFrames
}

// Stats summarize a finished encode.
type Stats struct {
	Frames int64
	Chunks int
}

// RunID derives a stable identifier from a configuration fingerprint.
func RunID(fingerprint string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gostim:"+fingerprint))
}

// Encode writes every remaining frame of src to sink and closes the sink.
// The sink is closed on every path; a close failure after a successful
// write is reported as an EncodingError with Op "finalize".
func Encode(ctx context.Context, src FrameSource, sink Sink, opts Options) (st Stats, err error) {
	defer func() {
		cerr := sink.Close()
		if err == nil && cerr != nil {
			err = &stimerr.EncodingError{Op: "finalize", Frame: st.Frames, Err: cerr}
		}
	}()

	chunk := opts.chunk()
	if chunk <= 0 {
		var errs stimerr.ConfigError
		errs.Add("chunk_frames", chunk, "must be positive")
		return st, errs.Err()
	}
	start := src.Position()
	want := src.Total() - start
	buf := make([]synth.Frame, chunk)
	var samples []int32
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		first := src.Position()
		n, err := src.Next(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, err
		}
		samples = synth.Interleave(samples, buf[:n])
		if len(samples) != n*channel.Count {
			return st, &stimerr.InvariantError{What: "interleaved samples", Want: int64(n * channel.Count), Got: int64(len(samples))}
		}
		if err := sink.WriteChunk(samples); err != nil {
			return st, &stimerr.EncodingError{Op: "write", Frame: first, Err: err}
		}
		st.Frames += int64(n)
		st.Chunks++
		if opts.Log != nil {
			opts.Log.Tracef("chunk %d: frames %d..%d", st.Chunks, first, first+int64(n))
		}
		if opts.Progress != nil {
			opts.Progress(st.Frames, want)
		}
	}
	if st.Frames != want {
		return st, &stimerr.InvariantError{What: "frames written", Want: want, Got: st.Frames}
	}
	if opts.Log != nil {
		opts.Log.Debugf("wrote %d frames in %d chunks", st.Frames, st.Chunks)
	}
	return st, nil
}

// EncodeFile renders b into a new file at path. Options without tags get the
// generator parameters and a run id.
func EncodeFile(ctx context.Context, path string, b *synth.Builder, opts Options) (st Stats, err error) {
	if opts.Vendor == "" {
		opts.Vendor = Vendor
	}
	if opts.Tags == nil {
		cfg := b.Config()
		opts.Tags = append(cfg.Tags(), [2]string{"STIM_RUN_ID", RunID(cfg.Fingerprint()).String()})
	}
	f := Format{
		Channels:    channel.Count,
		SampleRate:  b.SampleRate(),
		BitDepth:    b.BitDepth(),
		TotalFrames: b.TotalFrames(),
	}

	file, err := os.Create(path)
	if err != nil {
		return st, &stimerr.EncodingError{Op: "create", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &stimerr.EncodingError{Op: "close", Frame: st.Frames, Err: cerr}
		}
	}()

	sink, err := NewSink(file, f, opts.Container, opts)
	if err != nil {
		return st, err
	}
	if opts.Log != nil {
		opts.Log.Infof("encoding %d frames of %d channels at %d Hz, %d bit %s to %s",
			f.TotalFrames, f.Channels, f.SampleRate, f.BitDepth, opts.Container, path)
	}
	return Encode(ctx, b.Stream(), sink, opts)
}
