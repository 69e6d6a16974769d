// SPDX-License-Identifier: EPL-2.0

package container

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type fakeDemuxer struct {
	streams []*Stream
	infoErr error
	packets int
	closed  int
}

func (d *fakeDemuxer) FindStreamInfo() error { return d.infoErr }
func (d *fakeDemuxer) Streams() []*Stream    { return d.streams }
func (d *fakeDemuxer) Close() error {
	d.closed++
	return nil
}

func (d *fakeDemuxer) ReadPacket(pkt *audio.Packet) error {
	if d.packets == 0 {
		return io.EOF
	}
	d.packets--
	pkt.StreamIndex = 0
	pkt.Data = append(pkt.Data[:0], 1, 2)
	return nil
}

type fakeFormat struct {
	name  string
	magic string
	exts  []string
	demux *fakeDemuxer
}

func (f *fakeFormat) Name() string         { return f.name }
func (f *fakeFormat) Extensions() []string { return f.exts }
func (f *fakeFormat) Probe(h []byte) bool  { return f.magic != "" && bytes.HasPrefix(h, []byte(f.magic)) }
func (f *fakeFormat) Open(io.ReadSeeker) (Demuxer, error) {
	if f.demux == nil {
		return nil, errors.New("cannot open")
	}
	return f.demux, nil
}

func TestRegistry_Detect(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&fakeFormat{name: "riff", magic: "RIFF", exts: []string{"wav"}})
	r.Register(&fakeFormat{name: "raw", exts: []string{"pcm", "raw"}})

	tests := []struct {
		header string
		ext    string
		want   string
	}{
		{"RIFF....WAVE", ".bin", "riff"},
		{"garbage", ".PCM", "raw"},
		{"garbage", ".wav", "riff"},
	}
	for _, tt := range tests {
		f, err := r.Detect([]byte(tt.header), tt.ext)
		if err != nil {
			t.Fatalf("Detect(%q, %q) error = %v", tt.header, tt.ext, err)
		}
		if f.Name() != tt.want {
			t.Errorf("Detect(%q, %q) = %s, want %s", tt.header, tt.ext, f.Name(), tt.want)
		}
	}

	if _, err := r.Detect([]byte("garbage"), ".xyz"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Detect(unknown) error = %v, want ErrUnknownFormat", err)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&fakeFormat{name: "a", exts: []string{"x"}})
	r.Register(&fakeFormat{name: "b"})
	r.Register(&fakeFormat{name: "a", exts: []string{"y"}})

	if got := r.Names(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Names() = %v, want [a b]", got)
	}
	f, _ := r.Get("a")
	if f.Extensions()[0] != "y" {
		t.Error("Register did not replace the existing format")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"), NewRegistry())
	if !errors.Is(err, ErrOpen) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want ErrOpen wrapping ErrNotExist", err)
	}
}

func TestInput_Lifecycle(t *testing.T) {
	t.Parallel()

	demux := &fakeDemuxer{
		packets: 2,
		streams: []*Stream{
			{Index: 0, MediaType: MediaData},
			{Index: 1, MediaType: MediaAudio},
			{Index: 2, MediaType: MediaAudio, Params: codec.Parameters{ID: codec.IDMP3}},
		},
	}
	r := NewRegistry()
	r.Register(&fakeFormat{name: "fake", magic: "FAKE", demux: demux})

	path := filepath.Join(t.TempDir(), "in.bin")
	if err := os.WriteFile(path, []byte("FAKE data"), 0o600); err != nil {
		t.Fatal(err)
	}

	in, err := Open(path, r)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if in.Format().Name() != "fake" {
		t.Errorf("Format() = %s", in.Format().Name())
	}
	if err := in.FindStreamInfo(); err != nil {
		t.Fatalf("FindStreamInfo() error = %v", err)
	}

	best, err := in.FindBestAudioStream()
	if err != nil {
		t.Fatalf("FindBestAudioStream() error = %v", err)
	}
	if best.Index != 2 {
		t.Errorf("best stream = %d, want 2 (known codec)", best.Index)
	}

	pkt := &audio.Packet{}
	n := 0
	for in.ReadPacket(pkt) == nil {
		n++
	}
	if n != 2 {
		t.Errorf("read %d packets, want 2", n)
	}

	if err := in.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if demux.closed != 1 {
		t.Errorf("demuxer closed %d times, want 1", demux.closed)
	}
	if err := in.ReadPacket(pkt); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadPacket() after Close = %v, want ErrClosed", err)
	}
}

func TestInput_StreamErrors(t *testing.T) {
	t.Parallel()

	open := func(d *fakeDemuxer) *Input {
		r := NewRegistry()
		r.Register(&fakeFormat{name: "fake", magic: "FAKE", demux: d})
		in, err := OpenReader(bytes.NewReader([]byte("FAKE")), "x", r)
		if err != nil {
			t.Fatalf("OpenReader() error = %v", err)
		}
		return in
	}

	if err := open(&fakeDemuxer{}).FindStreamInfo(); !errors.Is(err, ErrStreamInfo) {
		t.Errorf("FindStreamInfo() with no streams = %v, want ErrStreamInfo", err)
	}
	boom := errors.New("truncated")
	if err := open(&fakeDemuxer{infoErr: boom}).FindStreamInfo(); !errors.Is(err, boom) {
		t.Errorf("FindStreamInfo() = %v, want wrapped cause", err)
	}

	in := open(&fakeDemuxer{streams: []*Stream{{MediaType: MediaData}}})
	if _, err := in.FindBestAudioStream(); !errors.Is(err, ErrNoAudioStream) {
		t.Errorf("FindBestAudioStream() = %v, want ErrNoAudioStream", err)
	}

	r := NewRegistry()
	r.Register(&fakeFormat{name: "fake", magic: "FAKE"})
	if _, err := OpenReader(bytes.NewReader([]byte("FAKE")), "x", r); !errors.Is(err, ErrOpen) {
		t.Errorf("OpenReader() with failing format = %v, want ErrOpen", err)
	}
}
