// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// MockDecoder is a scripted codec.Decoder. Every non-nil packet releases
// FramesPerPacket frames of FrameSize samples from Source; a nil packet
// starts draining.
type MockDecoder struct {
	Source          *Source
	FrameSize       int
	FramesPerPacket int

	SetParamsErr error
	OpenErr      error
	SendErr      error
	ReceiveErr   error // returned instead of the first frame
	DrainErr     error // returned instead of EOF once drained

	Sent   int
	Opened bool
	Closed bool
	Got    codec.Parameters

	pending  int
	draining bool
}

// NewMockDecoder returns a decoder emitting one frame of frameSize samples
// per packet.
func NewMockDecoder(src *Source, frameSize int) *MockDecoder {
	return &MockDecoder{Source: src, FrameSize: frameSize, FramesPerPacket: 1}
}

func (d *MockDecoder) SetParameters(p codec.Parameters) error {
	d.Got = p
	return d.SetParamsErr
}

func (d *MockDecoder) Open() error {
	if d.OpenErr != nil {
		return d.OpenErr
	}
	d.Opened = true
	return nil
}

func (d *MockDecoder) Params() audio.StreamParameters { return d.Source.Params }

func (d *MockDecoder) SendPacket(pkt *audio.Packet) error {
	if d.SendErr != nil {
		return d.SendErr
	}
	d.Sent++
	if pkt == nil {
		d.draining = true
		return nil
	}
	d.pending += d.FramesPerPacket
	return nil
}

func (d *MockDecoder) ReceiveFrame(frame *audio.Frame) error {
	if d.ReceiveErr != nil && !d.draining {
		return d.ReceiveErr
	}
	if d.pending > 0 {
		d.pending--
		if err := d.Source.ReadFrame(frame, d.FrameSize); err == nil {
			return nil
		}
		d.pending = 0
	}
	if d.draining {
		if d.DrainErr != nil {
			return d.DrainErr
		}
		return codec.ErrEOF
	}
	return codec.ErrAgain
}

func (d *MockDecoder) Close() error {
	d.Closed = true
	return nil
}

// MockCodec hands out a fixed decoder.
type MockCodec struct {
	ID      codec.ID
	Decoder codec.Decoder
	Err     error
}

func (c *MockCodec) Name() string    { return "mock" }
func (c *MockCodec) IDs() []codec.ID { return []codec.ID{c.ID} }
func (c *MockCodec) NewDecoder() (codec.Decoder, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Decoder, nil
}
