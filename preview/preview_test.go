package preview

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	gowav "github.com/go-audio/wav"
	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/synth"
	"github.com/neurlang/gostim/timing"
)

func builder(t *testing.T) *synth.Builder {
	t.Helper()
	b, err := synth.New(synth.Config{
		SampleRate:   8000,
		Duration:     250 * time.Millisecond,
		Mode:         timing.Blocked,
		Layout:       channel.Symmetric(channel.GroupSettings{Frequency: 250}),
		BlockSamples: 200,
		Gain:         1,
		BitDepth:     16,
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPairStream(t *testing.T) {
	b := builder(t)
	p, err := NewPair(b.Stream(), channel.Of(0, 0), channel.Of(1, 1), 16)
	if err != nil {
		t.Fatal(err)
	}
	var _ beep.StreamSeeker = p
	if p.Len() != 2000 {
		t.Fatalf("Len = %d", p.Len())
	}
	buf := make([][2]float64, 300)
	var got [][2]float64
	for {
		n, ok := p.Stream(buf)
		if !ok {
			break
		}
		got = append(got, buf[:n]...)
	}
	if err := p.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2000 {
		t.Fatalf("streamed %d frames", len(got))
	}
	for s, v := range got {
		f := b.Frame(int64(s))
		if want := float64(f[channel.Of(0, 0)]) / 32767; v[0] != want {
			t.Fatalf("frame %d left %v want %v", s, v[0], want)
		}
		if want := float64(f[channel.Of(1, 1)]) / 32767; v[1] != want {
			t.Fatalf("frame %d right %v want %v", s, v[1], want)
		}
		if math.Abs(v[0]) > 1 || math.Abs(v[1]) > 1 {
			t.Fatalf("frame %d out of range: %v", s, v)
		}
	}
	// first block: l1 plays, r2 is silent
	if got[50][1] != 0 || got[250][1] == 0 {
		t.Errorf("right channel activity: %v %v", got[50][1], got[250][1])
	}
}

func TestPairSeek(t *testing.T) {
	p, err := NewPair(builder(t).Stream(), 0, 1, 16)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Seek(1990); err != nil {
		t.Fatal(err)
	}
	buf := make([][2]float64, 64)
	n, ok := p.Stream(buf)
	if !ok || n != 10 || p.Position() != 2000 {
		t.Fatalf("n %d ok %v pos %d", n, ok, p.Position())
	}
	if _, ok := p.Stream(buf); ok {
		t.Error("stream continued after the end")
	}
}

func TestNewPairInvalid(t *testing.T) {
	s := builder(t).Stream()
	if _, err := NewPair(s, 0, channel.Count, 16); err == nil {
		t.Error("accepted channel out of range")
	}
	if _, err := NewPair(s, 0, 1, 0); err == nil {
		t.Error("accepted bit depth 0")
	}
}

func TestSaveWav(t *testing.T) {
	b := builder(t)
	path := filepath.Join(t.TempDir(), "pair.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveWav(f, b, 0, 4); err != nil {
		f.Close()
		t.Fatalf("SaveWav: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	d := gowav.NewDecoder(r)
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if d.NumChans != 2 || d.SampleRate != 8000 || d.BitDepth != 16 {
		t.Fatalf("header %d ch %d Hz %d bit", d.NumChans, d.SampleRate, d.BitDepth)
	}
	if len(pcm.Data) != 2*2000 {
		t.Fatalf("decoded %d samples", len(pcm.Data))
	}
	// scaling to [-1, 1] and back truncates, so allow one step
	for i := 0; i < 2000; i++ {
		f := b.Frame(int64(i))
		for c, slot := range []int{0, 4} {
			got, want := pcm.Data[2*i+c], int(f[slot])
			if got < want-1 || got > want+1 {
				t.Fatalf("frame %d channel %d: %d want %d", i, slot, got, want)
			}
		}
	}
}
