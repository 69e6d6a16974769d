// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/formats/vorbis"
)

// Format reads Ogg files.
type Format struct{}

func (Format) Name() string         { return "ogg" }
func (Format) Extensions() []string { return []string{"ogg", "oga", "opus"} }

func (Format) Probe(header []byte) bool {
	return len(header) >= 6 && bytes.Equal(header[:4], capture) && header[4] == 0 && header[5]&flagBOS != 0
}

func (Format) Open(rs io.ReadSeeker) (container.Demuxer, error) {
	return &demuxer{rs: rs}, nil
}

type logical struct {
	stream  *container.Stream
	headers int // header packets still expected
	seg     segmenter
	ended   bool
}

type demuxer struct {
	rs      io.ReadSeeker
	r       *bufio.Reader
	off     int64
	page    page
	streams []*container.Stream
	serials map[uint32]*logical
	queue   []audio.Packet
	eof     bool
}

func (d *demuxer) FindStreamInfo() error {
	if d.streams != nil {
		return nil
	}
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	d.r = bufio.NewReaderSize(d.rs, 64*1024)
	d.serials = make(map[uint32]*logical)

	head, _ := d.r.Peek(4)
	if !bytes.Equal(head, capture) {
		return ErrNotOggFile
	}

	dataSeen := false
	for !dataSeen || d.headersPending() {
		bos, err := d.nextPage()
		if errors.Is(err, io.EOF) {
			d.eof = true
			break
		}
		if err != nil {
			return err
		}
		if !bos {
			dataSeen = true
		}
	}

	if len(d.serials) == 0 {
		return ErrNoStreams
	}
	if d.headersPending() {
		return fmt.Errorf("%w: stream headers are truncated", container.ErrInvalidData)
	}
	d.lengthFromVorbis()
	return nil
}

func (d *demuxer) headersPending() bool {
	for _, l := range d.serials {
		if l.headers > 0 {
			return true
		}
	}
	return false
}

// lengthFromVorbis fills in the duration of a lone Vorbis stream. Failures
// leave it unknown.
func (d *demuxer) lengthFromVorbis() {
	if d.eof || len(d.streams) != 1 || d.streams[0].Params.ID != codec.IDVorbis {
		return
	}
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return
	}
	n, format, err := oggvorbis.GetLength(d.rs)
	if err == nil && format != nil && format.SampleRate > 0 {
		d.streams[0].Duration = time.Duration(n) * time.Second / time.Duration(format.SampleRate)
	}
	if _, err := d.rs.Seek(d.off, io.SeekStart); err != nil {
		d.eof = true
		return
	}
	d.r.Reset(d.rs)
}

// nextPage reads one page and files its packets. It reports whether the
// page began a stream.
func (d *demuxer) nextPage() (bool, error) {
	n, err := readPage(d.r, &d.page)
	d.off += n
	if err != nil {
		return false, err
	}
	p := &d.page

	l, ok := d.serials[p.serial]
	if !ok {
		if !p.bos() {
			// Pages of a stream that began before the data we have.
			return false, nil
		}
		l = &logical{stream: &container.Stream{Index: len(d.streams)}, headers: 1}
		d.serials[p.serial] = l
		d.streams = append(d.streams, l.stream)
	}
	if l.ended {
		return p.bos(), nil
	}

	l.seg.feed(p, func(pkt []byte) { d.file(l, pkt) })
	if p.eos() {
		l.ended = true
	}
	return p.bos(), nil
}

func (d *demuxer) file(l *logical, data []byte) {
	s := l.stream
	switch {
	case s.MediaType == container.MediaUnknown:
		s.MediaType, s.Params, l.headers = identify(data)
		s.Params.ExtraData = [][]byte{data}
		l.headers--
	case l.headers > 0:
		s.Params.ExtraData = append(s.Params.ExtraData, data)
		l.headers--
	default:
		d.queue = append(d.queue, audio.Packet{StreamIndex: s.Index, Data: data, PTS: -1})
	}
}

// identify inspects the first packet of a stream. It returns the number of
// header packets, the first one included.
func identify(first []byte) (container.MediaType, codec.Parameters, int) {
	switch {
	case len(first) >= 30 && first[0] == 1 && string(first[1:7]) == "vorbis":
		ch := int(first[11])
		return container.MediaAudio, codec.Parameters{
			ID:         codec.IDVorbis,
			SampleRate: int(binary.LittleEndian.Uint32(first[12:])),
			Channels:   ch,
			Layout:     vorbis.Layout(ch),
		}, 3
	case len(first) >= 19 && string(first[:8]) == "OpusHead":
		ch := int(first[9])
		return container.MediaAudio, codec.Parameters{
			ID:         codec.IDOpus,
			SampleRate: 48000,
			Channels:   ch,
			Layout:     audio.DefaultLayout(ch),
		}, 2
	case len(first) >= 9 && string(first[:5]) == "\x7fFLAC":
		return container.MediaAudio, codec.Parameters{}, 1 + int(binary.BigEndian.Uint16(first[7:]))
	case len(first) >= 8 && string(first[:8]) == "Speex   ":
		return container.MediaAudio, codec.Parameters{}, 2
	}
	return container.MediaData, codec.Parameters{}, 1
}

func (d *demuxer) Streams() []*container.Stream { return d.streams }

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.r == nil {
		if err := d.FindStreamInfo(); err != nil {
			return err
		}
	}
	for len(d.queue) == 0 {
		if d.eof {
			return io.EOF
		}
		if _, err := d.nextPage(); err != nil {
			d.eof = true
			if !errors.Is(err, io.EOF) {
				return err
			}
		}
	}

	next := d.queue[0]
	d.queue[0] = audio.Packet{}
	d.queue = d.queue[1:]
	pkt.StreamIndex = next.StreamIndex
	pkt.Data = next.Data
	pkt.PTS = next.PTS
	pkt.Duration = 0
	return nil
}

func (d *demuxer) Close() error {
	d.queue = nil
	return nil
}
