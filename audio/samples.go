// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// SamplesBufferSize returns the total number of bytes needed to hold
// nbSamples samples of every channel, and the size of one plane.
//
// align is the plane size alignment in bytes. With align == 0 the sample count
// is first rounded up to a multiple of 32 and no further alignment is applied,
// which leaves room for converters that overshoot slightly.
func SamplesBufferSize(channels, nbSamples int, f SampleFormat, align int) (size, lineSize int, err error) {
	bps := f.BytesPerSample()
	if bps == 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnknownSampleFormat, f)
	}
	if channels <= 0 || nbSamples < 0 || align < 0 {
		return 0, 0, fmt.Errorf("%w: channels=%d samples=%d align=%d", ErrInvalidParameters, channels, nbSamples, align)
	}
	if align == 0 {
		if nbSamples > math.MaxInt32-31 {
			return 0, 0, ErrBufferTooLarge
		}
		align = 1
		nbSamples = (nbSamples + 31) &^ 31
	}
	if channels > math.MaxInt32/bps || nbSamples > math.MaxInt32/channels/bps {
		return 0, 0, ErrBufferTooLarge
	}

	lineSize = nbSamples * bps
	if !f.IsPlanar() {
		lineSize *= channels
	}
	lineSize = (lineSize + align - 1) / align * align
	if lineSize < 0 || lineSize > math.MaxInt32 {
		return 0, 0, ErrBufferTooLarge
	}

	size = lineSize
	if f.IsPlanar() {
		if lineSize != 0 && channels > math.MaxInt32/lineSize {
			return 0, 0, ErrBufferTooLarge
		}
		size = lineSize * channels
	}
	return size, lineSize, nil
}

// AllocSamples allocates planes for nbSamples samples. The planes share one
// backing array, mirroring a single contiguous allocation.
func AllocSamples(channels, nbSamples int, f SampleFormat, align int) ([][]byte, int, error) {
	size, lineSize, err := SamplesBufferSize(channels, nbSamples, f, align)
	if err != nil {
		return nil, 0, err
	}
	backing := make([]byte, size)

	nbPlanes := 1
	if f.IsPlanar() {
		nbPlanes = channels
	}
	planes := make([][]byte, nbPlanes)
	for i := range planes {
		planes[i] = backing[i*lineSize : (i+1)*lineSize : (i+1)*lineSize]
	}
	return planes, lineSize, nil
}
