// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/utils"
)

// filterAlpha is the coefficient of the one-pole low-pass filter applied to
// the input when downsampling.
const filterAlpha = 0.5

// Context is a streaming sample rate, format and channel layout converter.
// Input is remixed to the output layout, optionally low-pass filtered, and
// resampled with cubic interpolation. Samples that cannot be produced yet are
// buffered and reported by Delay; passing nil input drains them.
type Context struct {
	in, out audio.StreamParameters
	inCh    int
	outCh   int
	inRate  int64
	outRate int64

	matrix [][]float64

	// hist holds remixed input per output channel. pos is the position of
	// the next output sample relative to hist[*][0], in units of 1/outRate
	// input samples.
	hist [][]float64
	pos  int64

	passthrough bool
	useFilter   bool
	filterState []float64
	primed      bool

	mixed []float64
}

// NewContext validates both sides and builds the remix matrix. Both layouts
// must be known.
func NewContext(in, out audio.StreamParameters) (*Context, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: input: %w", ErrInit, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%w: output: %w", ErrInit, err)
	}
	if in.Layout == audio.LayoutUnknown || out.Layout == audio.LayoutUnknown {
		return nil, fmt.Errorf("%w: %w", ErrInit, ErrNoChannelLayout)
	}

	c := &Context{
		in:          in,
		out:         out,
		inCh:        in.Layout.Channels(),
		outCh:       out.Layout.Channels(),
		inRate:      int64(in.SampleRate),
		outRate:     int64(out.SampleRate),
		matrix:      mixMatrix(in.Layout, out.Layout),
		passthrough: in.SampleRate == out.SampleRate,
		useFilter:   out.SampleRate < in.SampleRate,
	}
	c.hist = make([][]float64, c.outCh)
	c.filterState = make([]float64, c.outCh)
	c.mixed = make([]float64, c.outCh)
	return c, nil
}

// Delay returns the number of buffered samples not yet output, expressed in
// the given time base (samples per second) and rounded up.
func (c *Context) Delay(base int64) (int64, error) {
	pending := int64(len(c.hist[0]))*c.outRate - c.pos
	if pending <= 0 {
		return 0, nil
	}
	d, err := audio.Rescale(pending, base, c.outRate*c.inRate, audio.RoundUp)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSampleCount, err)
	}
	return d, nil
}

// Convert consumes srcCount input samples from src and writes at most
// dstCount output samples into dst. A nil src drains the buffered samples.
// It returns the number of samples written per channel.
func (c *Context) Convert(dst [][]byte, dstCount int, src [][]byte, srcCount int) (int, error) {
	if dstCount < 0 || srcCount < 0 {
		return 0, fmt.Errorf("%w: negative sample count", ErrConvert)
	}
	if !checkPlanes(dst, c.out.Format, c.outCh, dstCount) {
		return 0, fmt.Errorf("%w: output buffer too small for %d samples", ErrConvert, dstCount)
	}

	flush := src == nil
	if !flush {
		if !checkPlanes(src, c.in.Format, c.inCh, srcCount) {
			return 0, fmt.Errorf("%w: input buffer too small for %d samples", ErrConvert, srcCount)
		}
		c.push(src, srcCount)
	}

	n := c.produce(dst, dstCount, flush)
	c.trim()
	return n, nil
}

// push remixes and filters input samples onto the history.
func (c *Context) push(src [][]byte, count int) {
	for i := range count {
		for o, row := range c.matrix {
			var v float64
			for k, g := range row {
				if g != 0 {
					v += g * loadSample(src, c.in.Format, c.inCh, k, i)
				}
			}
			c.mixed[o] = v
		}

		if c.useFilter {
			if !c.primed {
				copy(c.filterState, c.mixed)
				c.primed = true
			}
			for o, x := range c.mixed {
				y := filterAlpha*x + (1-filterAlpha)*c.filterState[o]
				c.filterState[o] = y
				c.mixed[o] = y
			}
		}

		for o, v := range c.mixed {
			c.hist[o] = append(c.hist[o], v)
		}
	}
}

func (c *Context) produce(dst [][]byte, dstCount int, flush bool) int {
	n := 0
	for n < dstCount {
		last := int64(len(c.hist[0])) - 1
		idx := c.pos / c.outRate
		// Interpolation looks two samples ahead; only the drain may clamp
		// at the end of the history.
		if idx > last || (!c.passthrough && !flush && idx+2 > last) {
			break
		}
		frac := float64(c.pos%c.outRate) / float64(c.outRate)

		for o, h := range c.hist {
			v := h[idx]
			if !c.passthrough {
				v = utils.CubicInterpolate(
					h[max(idx-1, 0)], h[idx], h[min(idx+1, last)], h[min(idx+2, last)], frac)
			}
			storeSample(dst, c.out.Format, c.outCh, o, n, v)
		}
		n++
		c.pos += c.inRate
	}
	return n
}

// trim drops history that no future output sample can reference.
func (c *Context) trim() {
	drop := c.pos / c.outRate
	if !c.passthrough {
		drop--
	}
	drop = min(max(drop, 0), int64(len(c.hist[0])))
	if drop == 0 {
		return
	}
	for o := range c.hist {
		c.hist[o] = append(c.hist[o][:0], c.hist[o][drop:]...)
	}
	c.pos -= drop * c.outRate
}
