// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// maxFrameBytes is the decoded size of the largest frame: 1152 stereo
// 16-bit samples.
const maxFrameBytes = 1152 * 2 * 2

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

func newGoMP3(r io.Reader) (mp3Reader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return dec, nil
}

// Codec decodes MPEG-1/2/2.5 Layer III with github.com/hajimehoshi/go-mp3.
type Codec struct{}

func (Codec) Name() string    { return "mp3" }
func (Codec) IDs() []codec.ID { return []codec.ID{codec.IDMP3} }
func (Codec) NewDecoder() (codec.Decoder, error) {
	return &Decoder{newReader: newGoMP3}, nil
}

// Decoder feeds packets to go-mp3 through a queue. go-mp3 pulls its input,
// so a frame is only decoded once the next packet has arrived or the stream
// is draining; it must never see the end of the queue mid-stream.
//
// go-mp3 always produces interleaved stereo 16-bit samples.
type Decoder struct {
	params    codec.Parameters
	out       audio.StreamParameters
	newReader func(io.Reader) (mp3Reader, error)
	dec       mp3Reader
	queue     packetQueue
	buf       []byte

	open     bool
	draining bool
	done     bool
}

func (d *Decoder) SetParameters(p codec.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID != codec.IDMP3 {
		return fmt.Errorf("%w: %s is not mp3", codec.ErrInvalidParams, p.ID)
	}
	d.params = p
	return nil
}

func (d *Decoder) Open() error {
	if d.params.ID != codec.IDMP3 || d.params.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", codec.ErrInvalidParams, d.params.SampleRate)
	}
	d.out = audio.StreamParameters{
		Layout:     audio.LayoutStereo,
		SampleRate: d.params.SampleRate,
		Format:     audio.FormatS16,
	}
	d.buf = make([]byte, maxFrameBytes)
	d.open = true
	return nil
}

func (d *Decoder) Params() audio.StreamParameters { return d.out }

func (d *Decoder) SendPacket(pkt *audio.Packet) error {
	if !d.open {
		return codec.ErrNotOpen
	}
	if d.draining {
		return codec.ErrEOF
	}
	if pkt == nil || len(pkt.Data) == 0 {
		d.draining = true
		return nil
	}
	d.queue.push(pkt.Data)
	return nil
}

func (d *Decoder) ReceiveFrame(frame *audio.Frame) error {
	if !d.open {
		return codec.ErrNotOpen
	}
	if d.done {
		return codec.ErrEOF
	}
	if !d.draining && d.queue.len() < 2 {
		return codec.ErrAgain
	}

	if d.dec == nil {
		if d.queue.len() == 0 {
			d.done = true
			return codec.ErrEOF
		}
		dec, err := d.newReader(&d.queue)
		if err != nil {
			if d.draining && errors.Is(err, io.EOF) {
				d.done = true
				return codec.ErrEOF
			}
			return fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
		}
		d.dec = dec
	}

	n, err := d.dec.Read(d.buf)
	n -= n % 4
	if n > 0 {
		pcm := append([]byte(nil), d.buf[:n]...)
		if ferr := frame.Fill(d.out, n/4, [][]byte{pcm}); ferr != nil {
			return fmt.Errorf("%w: %w", codec.ErrInvalidData, ferr)
		}
		return nil
	}

	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if d.draining {
			d.done = true
			return codec.ErrEOF
		}
		return codec.ErrAgain
	}
	return fmt.Errorf("%w: %w", codec.ErrInvalidData, err)
}

func (d *Decoder) Close() error {
	d.open = false
	d.dec = nil
	d.queue = packetQueue{}
	return nil
}

// packetQueue is an io.Reader over queued packets. It returns io.EOF when
// empty.
type packetQueue struct {
	packets [][]byte
}

func (q *packetQueue) push(b []byte) {
	q.packets = append(q.packets, append([]byte(nil), b...))
}

func (q *packetQueue) len() int { return len(q.packets) }

func (q *packetQueue) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && len(q.packets) > 0 {
		c := copy(p[n:], q.packets[0])
		n += c
		q.packets[0] = q.packets[0][c:]
		if len(q.packets[0]) == 0 {
			q.packets[0] = nil
			q.packets = q.packets[1:]
		}
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
