// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
)

var marker = []byte("fLaC")

// layouts maps a channel count to the FLAC channel assignment. FLAC order
// matches the layout bit order, so frames need no reordering.
var layouts = [...]audio.ChannelLayout{
	1: audio.LayoutMono,
	2: audio.LayoutStereo,
	3: audio.LayoutStereo | audio.ChFrontCenter,
	4: audio.LayoutStereo | audio.ChBackLeft | audio.ChBackRight,
	5: audio.LayoutStereo | audio.ChFrontCenter | audio.ChBackLeft | audio.ChBackRight,
	6: audio.LayoutStereo | audio.ChFrontCenter | audio.ChLowFrequency | audio.ChBackLeft | audio.ChBackRight,
	7: audio.Layout6Point1,
	8: audio.Layout7Point1,
}

// Layout returns the FLAC channel layout for n channels.
func Layout(n int) audio.ChannelLayout {
	if n <= 0 || n >= len(layouts) {
		return audio.LayoutUnknown
	}
	return layouts[n]
}

// Format reads native FLAC files. STREAMINFO is parsed by
// github.com/mewkiz/flac and frame boundaries are found by parsing each
// frame with its frame package.
type Format struct{}

func (Format) Name() string         { return "flac" }
func (Format) Extensions() []string { return []string{"flac"} }

func (Format) Probe(header []byte) bool {
	return bytes.HasPrefix(header, marker)
}

func (Format) Open(rs io.ReadSeeker) (container.Demuxer, error) {
	return &demuxer{rs: rs}, nil
}

type demuxer struct {
	rs      io.ReadSeeker
	r       *bufio.Reader
	rec     recorder
	streams []*container.Stream
	pts     int64
	eof     bool
}

func (d *demuxer) FindStreamInfo() error {
	if d.streams != nil {
		return nil
	}
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	stream, err := flac.New(d.rs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	info := stream.Info

	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	d.r = bufio.NewReaderSize(d.rs, 64*1024)
	if err := d.skipMetadata(); err != nil {
		return err
	}
	d.rec.r = d.r

	channels := int(info.NChannels)
	s := &container.Stream{
		Index:     0,
		MediaType: container.MediaAudio,
		Params: codec.Parameters{
			ID:            codec.IDFLAC,
			SampleRate:    int(info.SampleRate),
			Channels:      channels,
			Layout:        Layout(channels),
			BitsPerSample: int(info.BitsPerSample),
		},
	}
	if info.NSamples > 0 && info.SampleRate > 0 {
		s.Duration = time.Duration(info.NSamples) * time.Second / time.Duration(info.SampleRate)
	}
	d.streams = []*container.Stream{s}
	return nil
}

// skipMetadata positions the reader on the first frame.
func (d *demuxer) skipMetadata() error {
	head := make([]byte, 4)
	if _, err := io.ReadFull(d.r, head); err != nil || !bytes.Equal(head, marker) {
		return ErrNotFlacFile
	}
	for {
		if _, err := io.ReadFull(d.r, head); err != nil {
			return fmt.Errorf("%w: truncated block header", ErrBadMetadata)
		}
		size := int(head[1])<<16 | int(head[2])<<8 | int(head[3])
		if _, err := d.r.Discard(size); err != nil {
			return fmt.Errorf("%w: truncated block of type %d", ErrBadMetadata, head[0]&0x7f)
		}
		if head[0]&0x80 != 0 {
			return nil
		}
	}
}

func (d *demuxer) Streams() []*container.Stream { return d.streams }

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.r == nil {
		if err := d.FindStreamInfo(); err != nil {
			return err
		}
	}
	if d.eof {
		return io.EOF
	}

	d.rec.buf = d.rec.buf[:0]
	f, err := frame.Parse(&d.rec)
	if err != nil {
		d.eof = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %w", container.ErrInvalidData, err)
	}

	pkt.StreamIndex = 0
	pkt.Data = append(pkt.Data[:0], d.rec.buf...)
	pkt.PTS = d.pts
	pkt.Duration = int64(f.BlockSize)
	d.pts += pkt.Duration
	return nil
}

func (d *demuxer) Close() error { return nil }

// recorder keeps a copy of every byte read through it.
type recorder struct {
	r   *bufio.Reader
	buf []byte
}

func (r *recorder) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.buf = append(r.buf, p[:n]...)
	return n, err
}

func (r *recorder) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.buf = append(r.buf, b)
	}
	return b, err
}
