package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/neurlang/gostim/stimerr"
)

const (
	// DefaultBlockSize is the number of frames per FLAC frame.
	DefaultBlockSize = 4096
	minFLACBlockSize = 16
	maxFLACBlockSize = 65535

	// fixedOrder is the polynomial order of predicted subframes.
	fixedOrder = 2
	// maxFixedDepth keeps order 2 residuals inside int32.
	maxFixedDepth = 24
	maxRice1Param = 14
	maxRice2Param = 30

	// streamInfoBlockSizes is the offset of the min and max block size
	// fields: signature, block header.
	streamInfoBlockSizes = 4 + 4
)

var flacChannels = map[int]frame.Channels{
	1: frame.ChannelsMono,
	2: frame.ChannelsLR,
	3: frame.ChannelsLRC,
	4: frame.ChannelsLRLsRs,
	5: frame.ChannelsLRCLsRs,
	6: frame.ChannelsLRCLfeLsRs,
	7: frame.ChannelsLRCLfeCsSlSr,
	8: frame.ChannelsLRCLfeLsRsSlSr,
}

// FLACOptions configure a FLACSink.
type FLACOptions struct {
	// BlockSize is the nominal frame count of a FLAC frame. The final frame
	// may be shorter, or up to 15 frames longer to avoid a tiny tail.
	BlockSize int
	Vendor    string
	Tags      [][2]string
}

// FLACSink encodes chunks of any size as variable block size FLAC frames.
// Silent channels are stored as constant subframes, the rest with an order 2
// fixed predictor when that is smaller than verbatim.
type FLACSink struct {
	enc       *flac.Encoder
	seeker    io.WriteSeeker
	format    Format
	channels  frame.Channels
	blockSize int
	pend      []int32
	sub       [][]int32
	frames    int
	smallest  int
	closed    bool
}

// NewFLACSink writes the stream header to w and returns the sink. The sink
// never closes w. When w is an io.WriteSeeker, Close rewrites the header with
// the final sample count and checksum.
func NewFLACSink(w io.Writer, f Format, opts FLACOptions) (*FLACSink, error) {
	if opts.BlockSize == 0 {
		opts.BlockSize = DefaultBlockSize
	}
	var errs stimerr.ConfigError
	chans, ok := flacChannels[f.Channels]
	if !ok {
		errs.Add("channels", f.Channels, "FLAC supports 1 to 8 channels")
	}
	if f.SampleRate <= 0 || f.SampleRate > 655350 {
		errs.Add("sample_rate", f.SampleRate, "FLAC supports 1 to 655350 Hz")
	}
	if f.BitDepth < 4 || f.BitDepth > 32 {
		errs.Add("bit_depth", f.BitDepth, "FLAC supports 4 to 32 bits")
	}
	if opts.BlockSize < minFLACBlockSize || opts.BlockSize > maxFLACBlockSize {
		errs.Add("chunk_frames", opts.BlockSize, fmt.Sprintf("FLAC block size must be in [%d, %d]", minFLACBlockSize, maxFLACBlockSize))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	maxFrame := min(opts.BlockSize+minFLACBlockSize-1, maxFLACBlockSize)
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(opts.BlockSize),
		BlockSizeMax:  uint16(maxFrame),
		SampleRate:    uint32(f.SampleRate),
		NChannels:     uint8(f.Channels),
		BitsPerSample: uint8(f.BitDepth),
		NSamples:      uint64(f.TotalFrames),
	}
	var blocks []*meta.Block
	if opts.Vendor != "" || len(opts.Tags) > 0 {
		blocks = append(blocks, vorbisComment(opts.Vendor, opts.Tags))
	}
	s := &FLACSink{
		format:    f,
		channels:  chans,
		blockSize: opts.BlockSize,
		pend:      make([]int32, 0, 2*opts.BlockSize*f.Channels),
		sub:       make([][]int32, f.Channels),
	}
	// the encoder closes io.Closers, the file belongs to the caller
	if ws, ok := w.(io.WriteSeeker); ok {
		s.seeker = ws
		w = struct{ io.WriteSeeker }{ws}
	} else {
		w = struct{ io.Writer }{w}
	}
	enc, err := flac.NewEncoder(w, info, blocks...)
	if err != nil {
		return nil, &stimerr.EncodingError{Op: "header", Err: err}
	}
	s.enc = enc
	for i := range s.sub {
		s.sub[i] = make([]int32, maxFrame)
	}
	return s, nil
}

// vorbisComment builds the comment block. The encoder writes the header
// length as given, so it is computed here.
func vorbisComment(vendor string, tags [][2]string) *meta.Block {
	length := 4 + len(vendor) + 4
	for _, t := range tags {
		length += 4 + len(t[0]) + 1 + len(t[1])
	}
	return &meta.Block{
		Header: meta.Header{Type: meta.TypeVorbisComment, Length: int64(length)},
		Body:   &meta.VorbisComment{Vendor: vendor, Tags: tags},
	}
}

// WriteChunk buffers interleaved samples and encodes every full block that
// is not needed to balance the stream tail.
func (s *FLACSink) WriteChunk(samples []int32) error {
	if s.closed {
		return fmt.Errorf("flac: write after close")
	}
	if _, err := checkChunk(samples, s.format.Channels); err != nil {
		return err
	}
	block := s.blockSize * s.format.Channels
	for len(samples) > 0 {
		k := min(cap(s.pend)-len(s.pend), len(samples))
		s.pend = append(s.pend, samples[:k]...)
		samples = samples[k:]
		if len(s.pend) == cap(s.pend) {
			if err := s.writeFrame(s.pend[:block]); err != nil {
				return err
			}
			s.pend = s.pend[:copy(s.pend, s.pend[block:])]
		}
	}
	return nil
}

// Close encodes the buffered tail, flushes the encoder and, when the writer
// is seekable, leaves it positioned at the end of the stream.
func (s *FLACSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.flushTail(); err != nil {
		return err
	}
	if err := s.enc.Close(); err != nil {
		return err
	}
	if s.seeker == nil {
		return nil
	}
	// the encoder records the smallest frame as the minimum block size,
	// which decoders reject below 16 when the stream is empty or tiny
	if s.frames == 0 || s.smallest < minFLACBlockSize {
		if err := s.patchBlockSizes(); err != nil {
			return err
		}
	}
	_, err := s.seeker.Seek(0, io.SeekEnd)
	return err
}

// flushTail writes the buffered frames, merging a tail shorter than the
// minimum block size into the preceding block.
func (s *FLACSink) flushTail() error {
	ch := s.format.Channels
	n := len(s.pend) / ch
	var sizes []int
	switch {
	case n == 0:
	case n <= s.blockSize:
		sizes = []int{n}
	case n-s.blockSize >= minFLACBlockSize:
		sizes = []int{s.blockSize, n - s.blockSize}
	case n <= maxFLACBlockSize:
		sizes = []int{n}
	default:
		sizes = []int{n / 2, n - n/2}
	}
	off := 0
	for _, size := range sizes {
		if err := s.writeFrame(s.pend[off : off+size*ch]); err != nil {
			return err
		}
		off += size * ch
	}
	s.pend = s.pend[:0]
	return nil
}

func (s *FLACSink) patchBlockSizes() error {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:], uint16(s.blockSize))
	binary.BigEndian.PutUint16(b[2:], uint16(s.blockSize))
	if _, err := s.seeker.Seek(streamInfoBlockSizes, io.SeekStart); err != nil {
		return err
	}
	_, err := s.seeker.Write(b[:])
	return err
}

func (s *FLACSink) writeFrame(samples []int32) error {
	ch := s.format.Channels
	n := len(samples) / ch
	fr := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: false,
			BlockSize:         uint16(n),
			SampleRate:        uint32(s.format.SampleRate),
			Channels:          s.channels,
			BitsPerSample:     uint8(s.format.BitDepth),
		},
		Subframes: make([]*frame.Subframe, ch),
	}
	for c := range fr.Subframes {
		sub := s.sub[c][:n]
		for i := range sub {
			sub[i] = samples[i*ch+c]
		}
		fr.Subframes[c] = subframe(sub, s.format.BitDepth)
	}
	if err := s.enc.WriteFrame(fr); err != nil {
		return err
	}
	if s.frames == 0 || n < s.smallest {
		s.smallest = n
	}
	s.frames++
	return nil
}

// subframe picks the smallest of constant, fixed and verbatim coding.
func subframe(samples []int32, bps int) *frame.Subframe {
	sf := &frame.Subframe{
		SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
		Samples:   samples,
		NSamples:  len(samples),
	}
	if constant(samples) {
		sf.Pred = frame.PredConstant
		return sf
	}
	if len(samples) <= fixedOrder || bps > maxFixedDepth {
		return sf
	}
	k, bits := riceParam(samples)
	method := frame.ResidualCodingMethodRice1
	paramBits := 4
	if k > maxRice1Param {
		method = frame.ResidualCodingMethodRice2
		paramBits = 5
	}
	// warm-up samples, coding method, partition order, parameter
	bits += uint64(fixedOrder*bps + 2 + 4 + paramBits)
	if bits >= uint64(len(samples)*bps) {
		return sf
	}
	sf.Pred = frame.PredFixed
	sf.Order = fixedOrder
	sf.ResidualCodingMethod = method
	sf.RiceSubframe = &frame.RiceSubframe{
		PartOrder:  0,
		Partitions: []frame.RicePartition{{Param: k}},
	}
	return sf
}

// riceParam returns the Rice parameter with the fewest residual bits for
// the order 2 residual of samples, and that bit count.
func riceParam(samples []int32) (uint, uint64) {
	var sum uint64
	for i := fixedOrder; i < len(samples); i++ {
		sum += uint64(zigzag(residual(samples, i)))
	}
	n := uint64(len(samples) - fixedOrder)
	k := uint(0)
	for k < maxRice2Param && n<<(k+1) <= sum {
		k++
	}
	best, bestBits := k, riceBits(samples, k)
	// k-1 wraps around when k is 0
	for _, c := range []uint{k - 1, k + 1} {
		if c > maxRice2Param {
			continue
		}
		if b := riceBits(samples, c); b < bestBits {
			best, bestBits = c, b
		}
	}
	return best, bestBits
}

func riceBits(samples []int32, k uint) uint64 {
	bits := uint64(len(samples)-fixedOrder) * uint64(k+1)
	for i := fixedOrder; i < len(samples); i++ {
		bits += uint64(zigzag(residual(samples, i)) >> k)
	}
	return bits
}

func residual(samples []int32, i int) int32 {
	return samples[i] - 2*samples[i-1] + samples[i-2]
}

func zigzag(r int32) uint32 {
	return uint32(r<<1) ^ uint32(r>>31)
}

func constant(samples []int32) bool {
	for _, v := range samples[1:] {
		if v != samples[0] {
			return false
		}
	}
	return true
}
