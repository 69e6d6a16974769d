// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/ik5/audtrans/audio"
)

// DecodeFunc decodes one packet payload into frame. It reports false when
// the packet produced no audio, such as a header or an empty packet.
type DecodeFunc func(data []byte, frame *audio.Frame) (bool, error)

// Pipe implements the SendPacket/ReceiveFrame handshake for decoders that
// turn each packet into at most one frame. It holds a single pending packet.
type Pipe struct {
	decode   DecodeFunc
	pending  []byte
	queued   bool
	draining bool
	done     bool
}

func NewPipe(decode DecodeFunc) *Pipe {
	return &Pipe{decode: decode}
}

// SendPacket queues pkt. A nil or empty packet starts draining. It returns
// ErrAgain while the previous packet has not been received and ErrEOF once
// draining has started.
func (p *Pipe) SendPacket(pkt *audio.Packet) error {
	if p.draining {
		return ErrEOF
	}
	if pkt == nil || len(pkt.Data) == 0 {
		p.draining = true
		return nil
	}
	if p.queued {
		return ErrAgain
	}
	// The demuxer reuses packet buffers.
	p.pending = append(p.pending[:0], pkt.Data...)
	p.queued = true
	return nil
}

// ReceiveFrame decodes the pending packet into frame.
func (p *Pipe) ReceiveFrame(frame *audio.Frame) error {
	for {
		if !p.queued {
			if p.draining {
				p.done = true
				return ErrEOF
			}
			return ErrAgain
		}
		p.queued = false

		ok, err := p.decode(p.pending, frame)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

// Done reports whether the pipe has been fully drained.
func (p *Pipe) Done() bool { return p.done }

// Reset discards any pending input and leaves draining mode.
func (p *Pipe) Reset() {
	p.pending = p.pending[:0]
	p.queued = false
	p.draining = false
	p.done = false
}
