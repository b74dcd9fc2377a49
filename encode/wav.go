package encode

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/neurlang/gostim/stimerr"
)

const wavPCM = 1

// WAVSink writes integer PCM into a RIFF/WAVE file.
type WAVSink struct {
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	channels int
}

// NewWAVSink returns a sink writing 16 or 24 bit PCM to w.
func NewWAVSink(w io.WriteSeeker, f Format) (*WAVSink, error) {
	var errs stimerr.ConfigError
	if f.Channels <= 0 {
		errs.Add("channels", f.Channels, "must be positive")
	}
	if f.SampleRate <= 0 {
		errs.Add("sample_rate", f.SampleRate, "must be positive")
	}
	if f.BitDepth != 16 && f.BitDepth != 24 {
		errs.Add("bit_depth", f.BitDepth, "WAV output supports 16 or 24 bits")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &WAVSink{
		enc: wav.NewEncoder(w, f.SampleRate, f.BitDepth, f.Channels, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			SourceBitDepth: f.BitDepth,
		},
		channels: f.Channels,
	}, nil
}

func (s *WAVSink) WriteChunk(samples []int32) error {
	if _, err := checkChunk(samples, s.channels); err != nil {
		return err
	}
	data := s.buf.Data[:0]
	for _, v := range samples {
		data = append(data, int(v))
	}
	s.buf.Data = data
	return s.enc.Write(s.buf)
}

// Close writes the final chunk sizes into the RIFF header.
func (s *WAVSink) Close() error {
	return s.enc.Close()
}
