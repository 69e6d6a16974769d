// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// Codec decodes FLAC frames with github.com/mewkiz/flac/frame.
type Codec struct{}

func (Codec) Name() string    { return "flac" }
func (Codec) IDs() []codec.ID { return []codec.ID{codec.IDFLAC} }
func (Codec) NewDecoder() (codec.Decoder, error) {
	return &Decoder{}, nil
}

// Decoder produces planar frames: 16-bit for streams of up to 16 bits per
// sample and 32-bit otherwise, left aligned.
type Decoder struct {
	params codec.Parameters
	out    audio.StreamParameters
	shift  uint
	pipe   *codec.Pipe
}

func (d *Decoder) SetParameters(p codec.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID != codec.IDFLAC {
		return fmt.Errorf("%w: %s is not flac", codec.ErrInvalidParams, p.ID)
	}
	if p.BitsPerSample < 4 || p.BitsPerSample > 32 || p.Channels < 1 || p.Channels > 8 || p.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels of %d bits at %d Hz",
			codec.ErrInvalidParams, p.Channels, p.BitsPerSample, p.SampleRate)
	}
	d.params = p
	return nil
}

func (d *Decoder) Open() error {
	if d.params.ID != codec.IDFLAC {
		return fmt.Errorf("%w: parameters not set", codec.ErrInvalidParams)
	}
	format, width := audio.FormatS16P, 16
	if d.params.BitsPerSample > 16 {
		format, width = audio.FormatS32P, 32
	}
	layout := d.params.Layout
	if layout == audio.LayoutUnknown {
		layout = Layout(d.params.Channels)
	}
	d.out = audio.StreamParameters{
		Layout:     layout,
		Channels:   d.params.Channels,
		SampleRate: d.params.SampleRate,
		Format:     format,
	}
	d.shift = uint(width - d.params.BitsPerSample)
	d.pipe = codec.NewPipe(d.decode)
	return nil
}

func (d *Decoder) Params() audio.StreamParameters { return d.out }

func (d *Decoder) SendPacket(pkt *audio.Packet) error {
	if d.pipe == nil {
		return codec.ErrNotOpen
	}
	return d.pipe.SendPacket(pkt)
}

func (d *Decoder) ReceiveFrame(f *audio.Frame) error {
	if d.pipe == nil {
		return codec.ErrNotOpen
	}
	return d.pipe.ReceiveFrame(f)
}

func (d *Decoder) decode(data []byte, out *audio.Frame) (bool, error) {
	f, err := frame.Parse(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	if f.Channels.Count() != d.params.Channels || len(f.Subframes) != d.params.Channels {
		return false, fmt.Errorf("%w: %d channels, want %d", ErrStreamChanged, f.Channels.Count(), d.params.Channels)
	}
	if f.SampleRate != 0 && int(f.SampleRate) != d.params.SampleRate {
		return false, fmt.Errorf("%w: %d Hz, want %d", ErrStreamChanged, f.SampleRate, d.params.SampleRate)
	}

	n := int(f.BlockSize)
	if n == 0 {
		return false, nil
	}
	bps := d.out.Format.BytesPerSample()
	planes := make([][]byte, len(f.Subframes))
	for ch, sub := range f.Subframes {
		if len(sub.Samples) < n {
			return false, fmt.Errorf("%w: channel %d has %d of %d samples", codec.ErrInvalidData, ch, len(sub.Samples), n)
		}
		plane := make([]byte, n*bps)
		for i, s := range sub.Samples[:n] {
			v := s << d.shift
			if bps == 2 {
				binary.LittleEndian.PutUint16(plane[i*2:], uint16(int16(v)))
			} else {
				binary.LittleEndian.PutUint32(plane[i*4:], uint32(v))
			}
		}
		planes[ch] = plane
	}
	if err := out.Fill(d.out, n, planes); err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	return true, nil
}

func (d *Decoder) Close() error {
	d.pipe = nil
	return nil
}
