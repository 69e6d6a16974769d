// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/formats/pcm"
)

// FramesPerPacket is the number of sample frames per demuxed packet.
const FramesPerPacket = 1024

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Format reads AIFF files with github.com/go-audio/aiff. Samples are
// re-packed as big-endian PCM packets.
type Format struct{}

func (Format) Name() string         { return "aiff" }
func (Format) Extensions() []string { return []string{"aiff", "aif", "aifc"} }

func (Format) Probe(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC")))
}

func (Format) Open(rs io.ReadSeeker) (container.Demuxer, error) {
	return &demuxer{dec: aiff.NewDecoder(rs)}, nil
}

type demuxer struct {
	dec     *aiff.Decoder
	r       aiffReader
	streams []*container.Stream

	bytesPerSample int
	channels       int
	intBuf         *goaudio.IntBuffer
	eof            bool
	pts            int64
}

func (d *demuxer) FindStreamInfo() error {
	if d.streams != nil {
		return nil
	}
	if !d.dec.IsValidFile() {
		return ErrNotAiffFile
	}
	d.dec.ReadInfo()

	format := d.dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return ErrUnsupportedAiffLayout
	}
	bits := int(d.dec.BitDepth)
	id, err := pcm.IDForBits(bits, true)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	s := d.init(d.dec, id, bits, format)
	s.Duration = time.Duration(d.dec.NumSampleFrames) * time.Second / time.Duration(format.SampleRate)
	return nil
}

func (d *demuxer) init(r aiffReader, id codec.ID, bits int, format *goaudio.Format) *container.Stream {
	d.r = r
	d.bytesPerSample = bits / 8
	d.channels = format.NumChannels
	s := &container.Stream{
		Index:     0,
		MediaType: container.MediaAudio,
		Params: codec.Parameters{
			ID:            id,
			SampleRate:    format.SampleRate,
			Channels:      format.NumChannels,
			Layout:        audio.DefaultLayout(format.NumChannels),
			BitsPerSample: bits,
			BlockAlign:    d.bytesPerSample * format.NumChannels,
		},
	}
	d.streams = []*container.Stream{s}
	return s
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

	want := FramesPerPacket * d.channels
	if d.intBuf == nil {
		d.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: d.r.Format(),
		}
	}
	d.intBuf.Data = d.intBuf.Data[:want]

	n, err := d.r.PCMBuffer(d.intBuf)
	n -= n % d.channels
	if n < want || err != nil {
		d.eof = true
	}
	if n == 0 {
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return fmt.Errorf("read AIFF samples: %w", err)
	}

	size := n * d.bytesPerSample
	if cap(pkt.Data) < size {
		pkt.Data = make([]byte, size)
	}
	pkt.Data = pkt.Data[:size]
	for i, v := range d.intBuf.Data[:n] {
		putBE(pkt.Data[i*d.bytesPerSample:], v, d.bytesPerSample)
	}

	pkt.StreamIndex = 0
	pkt.PTS = d.pts
	pkt.Duration = int64(n / d.channels)
	d.pts += pkt.Duration
	return nil
}

func (d *demuxer) Close() error { return nil }

func putBE(dst []byte, v, width int) {
	for i := width - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}
