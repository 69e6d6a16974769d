// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/resample"
)

// Status is the outcome of a successful Decode call.
type Status int

const (
	// MoreInputNeeded means the decoder consumed the packet and wants the
	// next one.
	MoreInputNeeded Status = iota
	// EndOfStream means the decoder is fully drained.
	EndOfStream
)

func (s Status) String() string {
	if s == EndOfStream {
		return "end of stream"
	}
	return "more input needed"
}

// FrameConverter converts decoded frames. *resample.Converter implements it.
type FrameConverter interface {
	Convert(frame *audio.Frame) (*resample.SampleSet, error)
	Flush() (*resample.SampleSet, error)
}

// EmitFunc receives every converted sample set, in order.
type EmitFunc func(set *resample.SampleSet) error

// Loop feeds packets to a decoder and pushes each decoded frame through a
// converter to the emit callback.
type Loop struct {
	dec   codec.Decoder
	conv  FrameConverter
	emit  EmitFunc
	frame *audio.Frame
	log   *logrus.Entry

	frames  int64
	samples int64
}

// New builds a loop. frame is reused for every decoded frame.
func New(dec codec.Decoder, conv FrameConverter, emit EmitFunc) *Loop {
	return &Loop{
		dec:   dec,
		conv:  conv,
		emit:  emit,
		frame: audio.NewFrame(),
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
}

// SetLogger replaces the logger used for per-frame debug output.
func (l *Loop) SetLogger(log *logrus.Entry) {
	if log != nil {
		l.log = log
	}
}

// Frames is the number of frames decoded and converted so far.
func (l *Loop) Frames() int64 { return l.frames }

// Samples is the number of converted samples per channel emitted so far.
func (l *Loop) Samples() int64 { return l.samples }

// Decode sends pkt to the decoder and converts every frame it returns. A nil
// pkt drains the decoder.
func (l *Loop) Decode(pkt *audio.Packet) (Status, error) {
	if err := l.dec.SendPacket(pkt); err != nil {
		return MoreInputNeeded, fmt.Errorf("%w: %w", ErrSendPacket, err)
	}

	for {
		err := l.dec.ReceiveFrame(l.frame)
		switch {
		case errors.Is(err, codec.ErrAgain):
			return MoreInputNeeded, nil
		case errors.Is(err, codec.ErrEOF):
			return EndOfStream, nil
		case err != nil:
			return MoreInputNeeded, fmt.Errorf("%w: %w", ErrReceiveFrame, err)
		}

		set, err := l.conv.Convert(l.frame)
		nb := l.frame.NbSamples
		l.frame.Unref()
		if err != nil {
			return MoreInputNeeded, fmt.Errorf("%w: %w", ErrConvert, err)
		}

		l.frames++
		l.log.WithFields(logrus.Fields{
			"function": "Decode",
			"in":       nb,
			"out":      set.Samples,
		}).Trace("frame converted")

		if err := l.put(set); err != nil {
			return MoreInputNeeded, err
		}
	}
}

// Flush drains the decoder, then the converter, and emits the tail.
func (l *Loop) Flush() error {
	if _, err := l.Decode(nil); err != nil {
		return err
	}
	set, err := l.conv.Flush()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvert, err)
	}
	return l.put(set)
}

func (l *Loop) put(set *resample.SampleSet) error {
	if set.Samples == 0 {
		return nil
	}
	if err := l.emit(set); err != nil {
		return fmt.Errorf("%w: %w", ErrEmit, err)
	}
	l.samples += int64(set.Samples)
	return nil
}
