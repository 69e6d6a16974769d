// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StreamParameters describes one side of a conversion. It is fixed for the
// lifetime of a session.
type StreamParameters struct {
	Layout     ChannelLayout
	Channels   int // used when Layout is unknown
	SampleRate int
	Format     SampleFormat
}

// ChannelCount derives the channel count from the layout, falling back to
// Channels when the layout is unknown.
func (p StreamParameters) ChannelCount() int {
	if p.Layout != LayoutUnknown {
		return p.Layout.Channels()
	}
	return p.Channels
}

// Validate checks that the parameters can describe real audio.
func (p StreamParameters) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidParameters, p.SampleRate)
	}
	if !p.Format.Valid() {
		return fmt.Errorf("%w: sample format %v", ErrInvalidParameters, p.Format)
	}
	if p.ChannelCount() <= 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidParameters)
	}
	return nil
}

func (p StreamParameters) String() string {
	return fmt.Sprintf("%d Hz %s %s", p.SampleRate, p.Format, p.Layout)
}

// Packet is a chunk of compressed (or raw PCM) data belonging to one stream.
// A nil *Packet handed to a decoder means "no more input".
type Packet struct {
	StreamIndex int
	Data        []byte
	PTS         int64 // in samples of the stream, -1 when unknown
	Duration    int64
}

// Unref drops the packet payload so the struct can be refilled.
func (p *Packet) Unref() {
	p.StreamIndex = -1
	p.Data = p.Data[:0]
	p.PTS = -1
	p.Duration = 0
}

// Frame holds decoded audio. Data has one plane per channel for planar
// formats and a single interleaved plane otherwise; each plane is LineSize
// bytes long.
type Frame struct {
	NbSamples  int
	SampleRate int
	Format     SampleFormat
	Layout     ChannelLayout
	Channels   int
	Data       [][]byte
	LineSize   int
	PTS        int64
}

// NewFrame returns an empty frame ready to be filled by a decoder.
func NewFrame() *Frame {
	f := &Frame{}
	f.Unref()
	return f
}

// Unref clears the frame so it can be reused for the next decoded frame.
func (f *Frame) Unref() {
	f.NbSamples = 0
	f.SampleRate = 0
	f.Format = FormatNone
	f.Layout = LayoutUnknown
	f.Channels = 0
	f.Data = nil
	f.LineSize = 0
	f.PTS = -1
}

// Params reports the stream parameters the frame was decoded with.
func (f *Frame) Params() StreamParameters {
	return StreamParameters{
		Layout:     f.Layout,
		Channels:   f.Channels,
		SampleRate: f.SampleRate,
		Format:     f.Format,
	}
}

// Fill points the frame at samples already encoded in planes. It computes
// LineSize from the sample count and rejects planes that are too short.
func (f *Frame) Fill(p StreamParameters, nbSamples int, planes [][]byte) error {
	_, lineSize, err := SamplesBufferSize(p.ChannelCount(), nbSamples, p.Format, 1)
	if err != nil {
		return err
	}
	want := 1
	if p.Format.IsPlanar() {
		want = p.ChannelCount()
	}
	if len(planes) != want {
		return fmt.Errorf("%w: %d planes for %s, want %d", ErrInvalidParameters, len(planes), p.Format, want)
	}
	for i, plane := range planes {
		if len(plane) < lineSize {
			return fmt.Errorf("%w: plane %d has %d bytes, want %d", ErrShortBuffer, i, len(plane), lineSize)
		}
	}
	f.NbSamples = nbSamples
	f.SampleRate = p.SampleRate
	f.Format = p.Format
	f.Layout = p.Layout
	f.Channels = p.ChannelCount()
	f.Data = planes
	f.LineSize = lineSize
	return nil
}
