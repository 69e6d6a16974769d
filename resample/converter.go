// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
)

// Converter turns decoded frames into per-channel sample buffers in the
// target rate, format and layout. It owns a resampling Context and a
// destination buffer that only ever grows.
//
// A Converter is not safe for concurrent use.
type Converter struct {
	ctx *Context
	in  audio.StreamParameters
	out audio.StreamParameters

	srcCh int
	dstCh int

	dst         [][]byte
	maxCapacity int // samples per channel dst can hold
	lineSize    int // per-channel bytes of the last emitted set
}

// New builds a converter from in to out. An unknown input layout is inferred
// from the channel count; ErrNoChannelLayout is returned when that fails.
func New(in, out audio.StreamParameters) (*Converter, error) {
	var err error
	if in, err = withLayout(in); err != nil {
		return nil, err
	}
	if out, err = withLayout(out); err != nil {
		return nil, err
	}

	ctx, err := NewContext(in, out)
	if err != nil {
		return nil, err
	}

	return &Converter{
		ctx:   ctx,
		in:    in,
		out:   out,
		srcCh: in.Layout.Channels(),
		dstCh: out.Layout.Channels(),
	}, nil
}

func withLayout(p audio.StreamParameters) (audio.StreamParameters, error) {
	if p.Layout != audio.LayoutUnknown {
		return p, nil
	}
	p.Layout = audio.DefaultLayout(p.Channels)
	if p.Layout == audio.LayoutUnknown {
		return p, fmt.Errorf("%w: %d channels", ErrNoChannelLayout, p.Channels)
	}
	return p, nil
}

// Input returns the input parameters with the inferred layout filled in.
func (c *Converter) Input() audio.StreamParameters { return c.in }

// Output returns the target parameters.
func (c *Converter) Output() audio.StreamParameters { return c.out }

// MaxCapacity is the largest output sample count the converter has
// allocated for. It never decreases.
func (c *Converter) MaxCapacity() int { return c.maxCapacity }

// LineSize is the per-channel byte size of the last emitted set.
func (c *Converter) LineSize() int { return c.lineSize }

// Convert converts one decoded frame. The returned set may be empty when the
// resampler buffers the whole frame.
func (c *Converter) Convert(frame *audio.Frame) (*SampleSet, error) {
	if c.ctx == nil {
		return nil, ErrClosed
	}
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrConvert)
	}
	if err := c.check(frame); err != nil {
		return nil, err
	}

	// Scratch source buffer, sized with slack for this frame only.
	src, srcLineSize, err := audio.AllocSamples(c.srcCh, frame.NbSamples, c.in.Format, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocSamples, err)
	}

	provisional, err := audio.RescaleCount(int64(frame.NbSamples), int64(c.out.SampleRate), int64(c.in.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSampleCount, err)
	}
	if err := c.reserve(provisional); err != nil {
		return nil, err
	}

	delay, err := c.ctx.Delay(int64(frame.SampleRate))
	if err != nil {
		return nil, err
	}
	count, err := audio.RescaleCount(delay+int64(frame.NbSamples), int64(c.out.SampleRate), int64(frame.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSampleCount, err)
	}
	if err := c.reserve(count); err != nil {
		return nil, err
	}

	copyLen := min(frame.LineSize, srcLineSize)
	for i, plane := range frame.Data {
		copy(src[i][:copyLen], plane)
	}

	n, err := c.ctx.Convert(c.dst, count, src, frame.NbSamples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	return c.emit(n)
}

// Flush drains the samples still buffered in the resampler.
func (c *Converter) Flush() (*SampleSet, error) {
	if c.ctx == nil {
		return nil, ErrClosed
	}
	delay, err := c.ctx.Delay(int64(c.in.SampleRate))
	if err != nil {
		return nil, err
	}
	count, err := audio.RescaleCount(delay, int64(c.out.SampleRate), int64(c.in.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSampleCount, err)
	}
	if err := c.reserve(count); err != nil {
		return nil, err
	}

	n, err := c.ctx.Convert(c.dst, count, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	return c.emit(n)
}

// Close releases the buffers. It is safe to call more than once.
func (c *Converter) Close() error {
	c.ctx = nil
	c.dst = nil
	return nil
}

func (c *Converter) check(frame *audio.Frame) error {
	switch {
	case frame.NbSamples <= 0:
		return fmt.Errorf("%w: %d samples", ErrAllocSamples, frame.NbSamples)
	case frame.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrFrameMismatch, frame.SampleRate)
	case frame.Format != c.in.Format:
		return fmt.Errorf("%w: format %s, want %s", ErrFrameMismatch, frame.Format, c.in.Format)
	case frame.Params().ChannelCount() != c.srcCh:
		return fmt.Errorf("%w: %d channels, want %d", ErrFrameMismatch, frame.Params().ChannelCount(), c.srcCh)
	}
	planes := 1
	if frame.Format.IsPlanar() {
		planes = c.srcCh
	}
	if len(frame.Data) != planes {
		return fmt.Errorf("%w: %d planes, want %d", ErrFrameMismatch, len(frame.Data), planes)
	}
	return nil
}

// reserve grows dst to hold n samples per channel.
func (c *Converter) reserve(n int) error {
	if n <= c.maxCapacity {
		return nil
	}
	planes, _, err := audio.AllocSamples(c.dstCh, n, c.out.Format, 1)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocSamples, err)
	}
	c.dst = planes
	c.maxCapacity = n
	return nil
}

// emit copies n converted samples out as one buffer per channel.
func (c *Converter) emit(n int) (*SampleSet, error) {
	_, lineSize, err := audio.SamplesBufferSize(c.dstCh, n, c.out.Format.Planar(), 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBufferSize, err)
	}
	c.lineSize = lineSize

	set := &SampleSet{
		Channels: make([][]byte, c.dstCh),
		LineSize: lineSize,
		Samples:  n,
		Format:   c.out.Format,
	}
	if c.out.Format.IsPlanar() {
		for ch := range set.Channels {
			set.Channels[ch] = append([]byte(nil), c.dst[ch][:lineSize]...)
		}
		return set, nil
	}

	bps := c.out.Format.BytesPerSample()
	stride := bps * c.dstCh
	for ch := range set.Channels {
		buf := make([]byte, lineSize)
		for i := range n {
			copy(buf[i*bps:(i+1)*bps], c.dst[0][i*stride+ch*bps:])
		}
		set.Channels[ch] = buf
	}
	return set, nil
}
