// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"fmt"

	"github.com/pion/opus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// decodeFunc decodes one packet into 16-bit little-endian samples.
type decodeFunc func(in, out []byte) (stereo bool, err error)

func newPion() decodeFunc {
	dec := opus.NewDecoder()
	return func(in, out []byte) (bool, error) {
		_, stereo, err := dec.Decode(in, out)
		return stereo, err
	}
}

// Codec decodes SILK-only Opus packets with github.com/pion/opus.
type Codec struct{}

func (Codec) Name() string    { return "opus" }
func (Codec) IDs() []codec.ID { return []codec.ID{codec.IDOpus} }
func (Codec) NewDecoder() (codec.Decoder, error) {
	return &Decoder{newDecode: newPion}, nil
}

// Decoder produces mono 16-bit frames at 48 kHz. Packets coded in CELT or
// hybrid mode are rejected with codec.ErrInvalidData.
type Decoder struct {
	newDecode func() decodeFunc
	decode    decodeFunc
	params    codec.Parameters
	out       audio.StreamParameters
	pipe      *codec.Pipe
	buf       []byte
}

func (d *Decoder) SetParameters(p codec.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID != codec.IDOpus {
		return fmt.Errorf("%w: %s is not opus", codec.ErrInvalidParams, p.ID)
	}
	if len(p.ExtraData) > 0 && !bytes.HasPrefix(p.ExtraData[0], []byte("OpusHead")) {
		return fmt.Errorf("%w: first header is not OpusHead", codec.ErrInvalidParams)
	}
	d.params = p
	return nil
}

func (d *Decoder) Open() error {
	if d.params.ID != codec.IDOpus {
		return fmt.Errorf("%w: parameters not set", codec.ErrInvalidParams)
	}
	d.decode = d.newDecode()
	d.out = audio.StreamParameters{
		Layout:     audio.LayoutMono,
		SampleRate: Rate,
		Format:     audio.FormatS16,
	}
	d.buf = make([]byte, maxPacketSamples*2)
	d.pipe = codec.NewPipe(d.decodePacket)
	return nil
}

func (d *Decoder) Params() audio.StreamParameters { return d.out }

func (d *Decoder) SendPacket(pkt *audio.Packet) error {
	if d.pipe == nil {
		return codec.ErrNotOpen
	}
	return d.pipe.SendPacket(pkt)
}

func (d *Decoder) ReceiveFrame(frame *audio.Frame) error {
	if d.pipe == nil {
		return codec.ErrNotOpen
	}
	return d.pipe.ReceiveFrame(frame)
}

func (d *Decoder) decodePacket(data []byte, frame *audio.Frame) (bool, error) {
	n, err := packetSamples(data)
	if err != nil {
		return false, err
	}
	if !silkOnly(data[0]) {
		return false, fmt.Errorf("%w: only SILK packets are supported, got configuration %d",
			codec.ErrInvalidData, data[0]>>3)
	}

	clear(d.buf)
	if _, err := d.decode(data, d.buf); err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	pcm := append([]byte(nil), d.buf[:n*2]...)
	if err := frame.Fill(d.out, n, [][]byte{pcm}); err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	return true, nil
}

func (d *Decoder) Close() error {
	d.pipe = nil
	d.decode = nil
	return nil
}
