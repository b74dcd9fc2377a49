package analysis

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
	"github.com/neurlang/gostim/stimerr"
)

// Recording is a decoded multichannel stream.
type Recording struct {
	SampleRate int
	BitDepth   int
	// Channels holds the samples of each channel, all of equal length.
	Channels [][]int32
	Tags     [][2]string
}

// Frames is the number of samples per channel.
func (r *Recording) Frames() int64 {
	if len(r.Channels) == 0 {
		return 0
	}
	return int64(len(r.Channels[0]))
}

// Tag returns the first VORBIS_COMMENT value stored under key.
func (r *Recording) Tag(key string) (string, bool) {
	for _, t := range r.Tags {
		if t[0] == key {
			return t[1], true
		}
	}
	return "", false
}

// Checksum is the hex SHA-256 of the interleaved little-endian PCM.
func (r *Recording) Checksum() string {
	h := sha256.New()
	var b [4]byte
	for i := int64(0); i < r.Frames(); i++ {
		for _, ch := range r.Channels {
			binary.LittleEndian.PutUint32(b[:], uint32(ch[i]))
			h.Write(b[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DecodeFLAC reads a whole FLAC stream from r.
func DecodeFLAC(r io.Reader) (*Recording, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil || !(bytes.Equal(magic, []byte("fLaC")) || bytes.HasPrefix(magic, []byte("ID3"))) {
		return nil, fmt.Errorf("%w: missing stream marker", stimerr.ErrNotFLAC)
	}
	stream, err := flac.Parse(br)
	if err != nil {
		return nil, fmt.Errorf("parsing FLAC header: %w", err)
	}
	rec := &Recording{
		SampleRate: int(stream.Info.SampleRate),
		BitDepth:   int(stream.Info.BitsPerSample),
		Channels:   make([][]int32, stream.Info.NChannels),
	}
	for _, block := range stream.Blocks {
		if vc, ok := block.Body.(*meta.VorbisComment); ok {
			rec.Tags = append(rec.Tags, vc.Tags...)
		}
	}
	if n := stream.Info.NSamples; n > 0 {
		for i := range rec.Channels {
			rec.Channels[i] = make([]int32, 0, n)
		}
	}
	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC frame at sample %d: %w", rec.Frames(), err)
		}
		if len(f.Subframes) != len(rec.Channels) {
			return nil, &stimerr.InvariantError{What: "subframes per frame", Want: int64(len(rec.Channels)), Got: int64(len(f.Subframes))}
		}
		for i, sub := range f.Subframes {
			rec.Channels[i] = append(rec.Channels[i], sub.Samples[:f.BlockSize]...)
		}
	}
	if n := stream.Info.NSamples; n > 0 && uint64(rec.Frames()) != n {
		return nil, &stimerr.InvariantError{What: "decoded frames", Want: int64(n), Got: rec.Frames()}
	}
	return rec, nil
}

// OpenFLAC decodes the FLAC file at path.
func OpenFLAC(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFLAC(f)
}
