// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
)

// ID identifies the coding of a stream.
type ID int

const (
	IDNone ID = iota
	IDPCMU8
	IDPCMS8
	IDPCMS16LE
	IDPCMS16BE
	IDPCMS24LE
	IDPCMS24BE
	IDPCMS32LE
	IDPCMS32BE
	IDPCMF32LE
	IDPCMF64LE
	IDMP1
	IDMP2
	IDMP3
	IDVorbis
	IDOpus
	IDFLAC
)

var idNames = map[ID]string{
	IDNone:     "none",
	IDPCMU8:    "pcm_u8",
	IDPCMS8:    "pcm_s8",
	IDPCMS16LE: "pcm_s16le",
	IDPCMS16BE: "pcm_s16be",
	IDPCMS24LE: "pcm_s24le",
	IDPCMS24BE: "pcm_s24be",
	IDPCMS32LE: "pcm_s32le",
	IDPCMS32BE: "pcm_s32be",
	IDPCMF32LE: "pcm_f32le",
	IDPCMF64LE: "pcm_f64le",
	IDMP1:      "mp1",
	IDMP2:      "mp2",
	IDMP3:      "mp3",
	IDVorbis:   "vorbis",
	IDOpus:     "opus",
	IDFLAC:     "flac",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", int(id))
}

// Parameters describe a coded stream as found by the demuxer.
type Parameters struct {
	ID            ID
	SampleRate    int
	Channels      int
	Layout        audio.ChannelLayout // may be unknown
	BitsPerSample int
	BlockAlign    int
	// ExtraData holds codec setup packets (Vorbis and Opus headers).
	ExtraData [][]byte
}

// Validate checks the fields every decoder relies on.
func (p Parameters) Validate() error {
	if p.ID == IDNone {
		return fmt.Errorf("%w: no codec id", ErrInvalidParams)
	}
	if p.SampleRate < 0 || p.Channels < 0 {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidParams, p.SampleRate, p.Channels)
	}
	if p.Layout != audio.LayoutUnknown && p.Channels != 0 && p.Layout.Channels() != p.Channels {
		return fmt.Errorf("%w: layout %s does not have %d channels", ErrInvalidParams, p.Layout, p.Channels)
	}
	return nil
}

// Codec creates decoders for the ids it supports.
type Codec interface {
	Name() string
	IDs() []ID
	NewDecoder() (Decoder, error)
}

// Decoder is a push/pull audio decoder.
//
// Packets go in through SendPacket and frames come out of ReceiveFrame.
// ReceiveFrame returns ErrAgain when it needs another packet. A nil packet
// starts draining, after which ReceiveFrame returns the remaining frames and
// then ErrEOF.
type Decoder interface {
	// SetParameters copies the stream parameters into the decoder.
	SetParameters(p Parameters) error
	// Open prepares the decoder. Parameters must be set first.
	Open() error
	SendPacket(pkt *audio.Packet) error
	ReceiveFrame(frame *audio.Frame) error
	// Params reports the parameters of the decoded frames. Valid after Open.
	Params() audio.StreamParameters
	Close() error
}
