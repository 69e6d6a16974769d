// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/formats/pcm"
)

// FramesPerPacket is the number of sample frames per demuxed packet.
const FramesPerPacket = 1024

const (
	formatPCM        = 0x0001
	formatFloat      = 0x0003
	formatExtensible = 0xfffe
)

// guidSuffix is shared by every KSDATAFORMAT_SUBTYPE GUID. The first two
// bytes of the GUID carry the plain format tag.
var guidSuffix = []byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00,
	0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71,
}

// Format reads RIFF/WAVE files with github.com/go-audio/wav.
type Format struct{}

func (Format) Name() string         { return "wav" }
func (Format) Extensions() []string { return []string{"wav", "wave"} }

func (Format) Probe(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Format) Open(rs io.ReadSeeker) (container.Demuxer, error) {
	return &demuxer{rs: rs, dec: wav.NewDecoder(rs)}, nil
}

type demuxer struct {
	rs         io.ReadSeeker
	dec        *wav.Decoder
	pcm        io.Reader
	streams    []*container.Stream
	blockAlign int
	pts        int64
}

func (d *demuxer) FindStreamInfo() error {
	if d.streams != nil {
		return nil
	}
	sub, err := subFormat(d.rs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if !d.dec.IsValidFile() {
		return ErrNotWavFile
	}
	if err := d.dec.FwdToPCM(); err != nil {
		return fmt.Errorf("%w: %w", ErrNoPCMChunk, err)
	}
	if d.dec.PCMChunk == nil {
		return ErrNoPCMChunk
	}

	channels := int(d.dec.NumChans)
	bits := int(d.dec.BitDepth)
	rate := int(d.dec.SampleRate)
	id, err := codecID(d.dec.WavAudioFormat, bits, sub)
	if err != nil {
		return err
	}
	if channels == 0 || rate == 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedWavFormat, channels, rate)
	}

	d.blockAlign = channels * ((bits + 7) / 8)
	d.pcm = io.LimitReader(d.dec.PCMChunk, int64(d.dec.PCMSize))

	frames := int64(d.dec.PCMSize / d.blockAlign)
	d.streams = []*container.Stream{{
		Index:     0,
		MediaType: container.MediaAudio,
		Params: codec.Parameters{
			ID:            id,
			SampleRate:    rate,
			Channels:      channels,
			Layout:        audio.DefaultLayout(channels),
			BitsPerSample: bits,
			BlockAlign:    d.blockAlign,
		},
		Duration: time.Duration(frames) * time.Second / time.Duration(rate),
	}}
	return nil
}

// subFormat returns the SubFormat GUID of a WAVE_FORMAT_EXTENSIBLE fmt
// chunk, or nil when the chunk is shorter. rs is rewound on success.
func subFormat(rs io.ReadSeeker) ([]byte, error) {
	p := riff.New(rs)
	if err := p.ParseHeaders(); err != nil {
		return nil, err
	}

	var sub []byte
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return nil, fmt.Errorf("fmt chunk: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}
		if ch.Size >= 40 {
			body := make([]byte, 40)
			if _, err := io.ReadFull(ch, body); err != nil {
				return nil, fmt.Errorf("fmt chunk: %w", err)
			}
			sub = body[24:40]
		}
		break
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return sub, nil
}

func codecID(tag uint16, bits int, sub []byte) (codec.ID, error) {
	if tag == formatExtensible {
		if len(sub) != 16 || !bytes.Equal(sub[2:], guidSuffix) {
			return codec.IDNone, fmt.Errorf("%w: unknown extensible sub format %x", ErrUnsupportedWavFormat, sub)
		}
		tag = uint16(sub[0]) | uint16(sub[1])<<8
	}

	switch tag {
	case formatPCM:
		return pcm.IDForBits(bits, false)
	case formatFloat:
		switch bits {
		case 32:
			return codec.IDPCMF32LE, nil
		case 64:
			return codec.IDPCMF64LE, nil
		}
	}
	return codec.IDNone, fmt.Errorf("%w: format tag 0x%04x, %d bits", ErrUnsupportedWavFormat, tag, bits)
}

func (d *demuxer) Streams() []*container.Stream { return d.streams }

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.pcm == nil {
		if err := d.FindStreamInfo(); err != nil {
			return err
		}
	}

	size := FramesPerPacket * d.blockAlign
	if cap(pkt.Data) < size {
		pkt.Data = make([]byte, size)
	}
	n, err := io.ReadFull(d.pcm, pkt.Data[:size])
	n -= n % d.blockAlign
	if n == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return err
	}

	pkt.StreamIndex = 0
	pkt.Data = pkt.Data[:n]
	pkt.PTS = d.pts
	pkt.Duration = int64(n / d.blockAlign)
	d.pts += pkt.Duration
	return nil
}

func (d *demuxer) Close() error { return nil }
