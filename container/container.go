// SPDX-License-Identifier: EPL-2.0

package container

import (
	"io"
	"time"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// MediaType of a stream.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaAudio
	MediaData
)

// Stream is one elementary stream of an input.
type Stream struct {
	Index     int
	MediaType MediaType
	Params    codec.Parameters
	// Duration is zero when unknown.
	Duration time.Duration
}

// Demuxer splits a container into packets.
type Demuxer interface {
	// FindStreamInfo reads enough of the input to fill in the stream
	// parameters. Packets read while probing are returned later by
	// ReadPacket.
	FindStreamInfo() error
	Streams() []*Stream
	// ReadPacket fills pkt with the next packet of any stream and returns
	// io.EOF at the end of the input.
	ReadPacket(pkt *audio.Packet) error
	Close() error
}

// Format is a container reader.
type Format interface {
	Name() string
	Extensions() []string
	// Probe reports whether header, the first bytes of the input, looks
	// like this format.
	Probe(header []byte) bool
	Open(rs io.ReadSeeker) (Demuxer, error)
}
