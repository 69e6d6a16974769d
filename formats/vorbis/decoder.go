// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jfreymuth/vorbis"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// packetDecoder is an interface for vorbis.Decoder to allow testing
type packetDecoder interface {
	ReadHeader([]byte) error
	HeadersRead() bool
	Decode([]byte) ([]float32, error)
	SampleRate() int
	Channels() int
}

// positions lists the speaker of each channel in Vorbis order, by channel
// count.
var positions = [][]audio.ChannelLayout{
	1: {audio.ChFrontCenter},
	2: {audio.ChFrontLeft, audio.ChFrontRight},
	3: {audio.ChFrontLeft, audio.ChFrontCenter, audio.ChFrontRight},
	4: {audio.ChFrontLeft, audio.ChFrontRight, audio.ChBackLeft, audio.ChBackRight},
	5: {audio.ChFrontLeft, audio.ChFrontCenter, audio.ChFrontRight, audio.ChSideLeft, audio.ChSideRight},
	6: {audio.ChFrontLeft, audio.ChFrontCenter, audio.ChFrontRight, audio.ChSideLeft, audio.ChSideRight,
		audio.ChLowFrequency},
	7: {audio.ChFrontLeft, audio.ChFrontCenter, audio.ChFrontRight, audio.ChSideLeft, audio.ChSideRight,
		audio.ChBackCenter, audio.ChLowFrequency},
	8: {audio.ChFrontLeft, audio.ChFrontCenter, audio.ChFrontRight, audio.ChSideLeft, audio.ChSideRight,
		audio.ChBackLeft, audio.ChBackRight, audio.ChLowFrequency},
}

// Layout returns the channel layout Vorbis defines for n channels, or
// LayoutUnknown past eight channels.
func Layout(n int) audio.ChannelLayout {
	if n <= 0 || n >= len(positions) {
		return audio.LayoutUnknown
	}
	var l audio.ChannelLayout
	for _, p := range positions[n] {
		l |= p
	}
	return l
}

// order maps each Vorbis channel to its index in the layout's frame order.
func order(n int) []int {
	l := Layout(n)
	if l == audio.LayoutUnknown {
		return nil
	}
	idx := make([]int, n)
	for i, p := range positions[n] {
		idx[i] = l.Index(p)
	}
	return idx
}

// Codec decodes Vorbis packets with github.com/jfreymuth/vorbis.
type Codec struct{}

func (Codec) Name() string    { return "vorbis" }
func (Codec) IDs() []codec.ID { return []codec.ID{codec.IDVorbis} }
func (Codec) NewDecoder() (codec.Decoder, error) {
	return &Decoder{dec: new(vorbis.Decoder)}, nil
}

// Decoder produces packed 32-bit float frames in the channel order of the
// reported layout.
type Decoder struct {
	dec    packetDecoder
	params codec.Parameters
	out    audio.StreamParameters
	order  []int
	pipe   *codec.Pipe
}

func (d *Decoder) SetParameters(p codec.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID != codec.IDVorbis {
		return fmt.Errorf("%w: %s is not vorbis", codec.ErrInvalidParams, p.ID)
	}
	if len(p.ExtraData) < 3 {
		return fmt.Errorf("%w: %d of 3 header packets", codec.ErrInvalidParams, len(p.ExtraData))
	}
	d.params = p
	return nil
}

func (d *Decoder) Open() error {
	if d.params.ID != codec.IDVorbis {
		return fmt.Errorf("%w: parameters not set", codec.ErrInvalidParams)
	}
	for i, h := range d.params.ExtraData {
		if d.dec.HeadersRead() {
			break
		}
		if err := d.dec.ReadHeader(h); err != nil {
			return fmt.Errorf("%w: header %d: %w", codec.ErrInvalidData, i, err)
		}
	}
	if !d.dec.HeadersRead() {
		return fmt.Errorf("%w: incomplete headers", codec.ErrInvalidData)
	}

	channels := d.dec.Channels()
	layout := Layout(channels)
	if layout == audio.LayoutUnknown {
		// Past eight channels the order is application defined.
		layout = audio.DefaultLayout(channels)
	} else {
		d.order = order(channels)
	}
	d.out = audio.StreamParameters{
		Layout:     layout,
		Channels:   channels,
		SampleRate: d.dec.SampleRate(),
		Format:     audio.FormatF32,
	}
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

func (d *Decoder) ReceiveFrame(frame *audio.Frame) error {
	if d.pipe == nil {
		return codec.ErrNotOpen
	}
	return d.pipe.ReceiveFrame(frame)
}

func (d *Decoder) decode(data []byte, frame *audio.Frame) (bool, error) {
	samples, err := d.dec.Decode(data)
	if err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	ch := d.out.ChannelCount()
	n := len(samples) / ch
	if n == 0 {
		// The first audio packet only primes the overlap.
		return false, nil
	}

	buf := make([]byte, n*ch*4)
	for i := range n {
		for c := range ch {
			dst := c
			if d.order != nil {
				dst = d.order[c]
			}
			binary.LittleEndian.PutUint32(buf[(i*ch+dst)*4:], math.Float32bits(samples[i*ch+c]))
		}
	}
	if err := frame.Fill(d.out, n, [][]byte{buf}); err != nil {
		return false, fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
	}
	return true, nil
}

func (d *Decoder) Close() error {
	d.pipe = nil
	return nil
}
