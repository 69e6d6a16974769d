// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
)

// maxResync bounds how many bytes are skipped looking for the first frame.
const maxResync = 64 * 1024

// Format splits MPEG audio elementary streams into frames.
type Format struct{}

func (Format) Name() string         { return "mp3" }
func (Format) Extensions() []string { return []string{"mp3", "mp2", "mp1", "mpga"} }

// Probe accepts an ID3v2 tag or a frame header followed by a second one.
func (Format) Probe(header []byte) bool {
	if id3v2Size(header) > 0 {
		return true
	}
	h, ok := parseHeader(header)
	if !ok {
		return false
	}
	n := h.frameLength()
	if len(header) < n+4 {
		return true
	}
	_, ok = parseHeader(header[n:])
	return ok
}

func (Format) Open(rs io.ReadSeeker) (container.Demuxer, error) {
	return &demuxer{rs: rs}, nil
}

type demuxer struct {
	rs      io.ReadSeeker
	r       *bufio.Reader
	streams []*container.Stream
	first   []byte // first frame, read while probing
	pts     int64
	eof     bool
}

func (d *demuxer) FindStreamInfo() error {
	if d.streams != nil {
		return nil
	}

	size, err := d.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	d.r = bufio.NewReaderSize(d.rs, 16*1024)

	start, err := d.skipID3()
	if err != nil {
		return err
	}

	h, frame, skipped, err := d.next(maxResync)
	if err != nil {
		return fmt.Errorf("%w: no MPEG audio frame found: %w", container.ErrInvalidData, err)
	}
	d.first = frame

	s := &container.Stream{
		Index:     0,
		MediaType: container.MediaAudio,
		Params: codec.Parameters{
			ID:         h.codecID(),
			SampleRate: h.sampleRate,
			Channels:   h.channels,
			Layout:     audio.DefaultLayout(h.channels),
		},
	}
	// Constant bitrate estimate from the first frame.
	if audioBytes := size - int64(start) - int64(skipped); audioBytes > 0 {
		s.Duration = time.Duration(audioBytes*8) * time.Millisecond / time.Duration(h.bitrate)
	}
	d.streams = []*container.Stream{s}
	return nil
}

func (d *demuxer) skipID3() (int, error) {
	head, err := d.r.Peek(10)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	n := id3v2Size(head)
	if n == 0 {
		return 0, nil
	}
	if _, err := d.r.Discard(n); err != nil {
		return 0, fmt.Errorf("%w: truncated ID3v2 tag", container.ErrInvalidData)
	}
	return n, nil
}

// next reads the next frame, skipping at most limit bytes of garbage. A
// negative limit never gives up.
func (d *demuxer) next(limit int) (frameHeader, []byte, int, error) {
	skipped := 0
	for limit < 0 || skipped <= limit {
		head, err := d.r.Peek(4)
		if err != nil {
			return frameHeader{}, nil, skipped, io.EOF
		}
		if string(head[:3]) == "TAG" {
			// ID3v1 trailer
			return frameHeader{}, nil, skipped, io.EOF
		}

		h, ok := parseHeader(head)
		if !ok {
			d.r.Discard(1)
			skipped++
			continue
		}

		frame := make([]byte, h.frameLength())
		if _, err := io.ReadFull(d.r, frame); err != nil {
			// Truncated last frame.
			return frameHeader{}, nil, skipped, io.EOF
		}
		return h, frame, skipped, nil
	}
	return frameHeader{}, nil, skipped, errors.New("resync limit reached")
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

	var frame []byte
	var h frameHeader
	if d.first != nil {
		frame, d.first = d.first, nil
		h, _ = parseHeader(frame)
	} else {
		var err error
		h, frame, _, err = d.next(-1)
		if err != nil {
			d.eof = true
			return err
		}
	}

	pkt.StreamIndex = 0
	pkt.Data = frame
	pkt.PTS = d.pts
	pkt.Duration = int64(h.samplesPerFrame())
	d.pts += pkt.Duration
	return nil
}

func (d *demuxer) Close() error { return nil }
