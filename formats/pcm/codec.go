// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type coding struct {
	bytes int // per input sample
	out   audio.SampleFormat
	conv  func(dst, src []byte)
}

var codings = map[codec.ID]coding{
	codec.IDPCMU8:    {1, audio.FormatU8, copyBytes},
	codec.IDPCMS8:    {1, audio.FormatU8, s8ToU8},
	codec.IDPCMS16LE: {2, audio.FormatS16, copyBytes},
	codec.IDPCMS16BE: {2, audio.FormatS16, swap16},
	codec.IDPCMS24LE: {3, audio.FormatS32, s24leToS32},
	codec.IDPCMS24BE: {3, audio.FormatS32, s24beToS32},
	codec.IDPCMS32LE: {4, audio.FormatS32, copyBytes},
	codec.IDPCMS32BE: {4, audio.FormatS32, swap32},
	codec.IDPCMF32LE: {4, audio.FormatF32, copyBytes},
	codec.IDPCMF64LE: {8, audio.FormatF64, copyBytes},
}

// IDForBits returns the PCM codec id for integer samples of the given width
// and byte order.
func IDForBits(bits int, bigEndian bool) (codec.ID, error) {
	switch {
	case bits == 8 && !bigEndian:
		return codec.IDPCMU8, nil
	case bits == 8:
		return codec.IDPCMS8, nil
	case bits == 16 && bigEndian:
		return codec.IDPCMS16BE, nil
	case bits == 16:
		return codec.IDPCMS16LE, nil
	case bits == 24 && bigEndian:
		return codec.IDPCMS24BE, nil
	case bits == 24:
		return codec.IDPCMS24LE, nil
	case bits == 32 && bigEndian:
		return codec.IDPCMS32BE, nil
	case bits == 32:
		return codec.IDPCMS32LE, nil
	}
	return codec.IDNone, fmt.Errorf("%w: %d-bit PCM", codec.ErrInvalidParams, bits)
}

// Codec decodes uncompressed PCM into packed samples.
type Codec struct{}

func (Codec) Name() string { return "pcm" }

func (Codec) IDs() []codec.ID {
	ids := make([]codec.ID, 0, len(codings))
	for id := range codings {
		ids = append(ids, id)
	}
	return ids
}

func (Codec) NewDecoder() (codec.Decoder, error) {
	d := &Decoder{}
	d.pipe = codec.NewPipe(d.decode)
	return d, nil
}

// Decoder converts each packet into one frame. Signed 8-bit becomes
// unsigned, 24-bit is widened to 32-bit and big endian is swapped.
type Decoder struct {
	params codec.Parameters
	coding coding
	out    audio.StreamParameters
	pipe   *codec.Pipe
	open   bool
}

func (d *Decoder) SetParameters(p codec.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c, ok := codings[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s is not PCM", codec.ErrInvalidParams, p.ID)
	}
	d.params = p
	d.coding = c
	return nil
}

func (d *Decoder) Open() error {
	if d.coding.conv == nil {
		return fmt.Errorf("%w: parameters not set", codec.ErrInvalidParams)
	}
	if d.params.SampleRate <= 0 || d.params.Channels <= 0 {
		return fmt.Errorf("%w: rate=%d channels=%d", codec.ErrInvalidParams, d.params.SampleRate, d.params.Channels)
	}
	d.out = audio.StreamParameters{
		Layout:     d.params.Layout,
		Channels:   d.params.Channels,
		SampleRate: d.params.SampleRate,
		Format:     d.coding.out,
	}
	d.open = true
	return nil
}

func (d *Decoder) Params() audio.StreamParameters { return d.out }

func (d *Decoder) SendPacket(pkt *audio.Packet) error {
	if !d.open {
		return codec.ErrNotOpen
	}
	return d.pipe.SendPacket(pkt)
}

func (d *Decoder) ReceiveFrame(frame *audio.Frame) error {
	if !d.open {
		return codec.ErrNotOpen
	}
	return d.pipe.ReceiveFrame(frame)
}

func (d *Decoder) Close() error {
	d.open = false
	return nil
}

func (d *Decoder) decode(data []byte, frame *audio.Frame) (bool, error) {
	block := d.coding.bytes * d.params.Channels
	n := len(data) / block
	if n == 0 {
		return false, nil
	}

	outBps := d.coding.out.BytesPerSample()
	buf := make([]byte, n*d.params.Channels*outBps)
	d.coding.conv(buf, data[:n*block])

	if err := frame.Fill(d.out, n, [][]byte{buf}); err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	return true, nil
}

func copyBytes(dst, src []byte) { copy(dst, src) }

func s8ToU8(dst, src []byte) {
	for i, b := range src {
		dst[i] = b ^ 0x80
	}
}

func swap16(dst, src []byte) {
	for i := 0; i+1 < len(src); i += 2 {
		binary.LittleEndian.PutUint16(dst[i:], binary.BigEndian.Uint16(src[i:]))
	}
}

func swap32(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		binary.LittleEndian.PutUint32(dst[i:], binary.BigEndian.Uint32(src[i:]))
	}
}

func s24leToS32(dst, src []byte) {
	for i, o := 0, 0; i+2 < len(src); i, o = i+3, o+4 {
		dst[o] = 0
		dst[o+1] = src[i]
		dst[o+2] = src[i+1]
		dst[o+3] = src[i+2]
	}
}

func s24beToS32(dst, src []byte) {
	for i, o := 0, 0; i+2 < len(src); i, o = i+3, o+4 {
		dst[o] = 0
		dst[o+1] = src[i+2]
		dst[o+2] = src[i+1]
		dst[o+3] = src[i]
	}
}
