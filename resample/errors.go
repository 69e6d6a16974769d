// SPDX-License-Identifier: EPL-2.0

package resample

import "errors"

var (
	ErrInit            = errors.New("could not init the resampler")
	ErrNoChannelLayout = errors.New("no valid channel layout for the source channel count")
	ErrAllocSamples    = errors.New("could not allocate sample buffer")
	ErrSampleCount     = errors.New("output sample count out of range")
	ErrConvert         = errors.New("error while converting samples")
	ErrBufferSize      = errors.New("could not compute output buffer size")
	ErrFrameMismatch   = errors.New("frame does not match the converter input")
	ErrClosed          = errors.New("converter is closed")
)
