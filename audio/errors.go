// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidParameters    = errors.New("invalid stream parameters")
	ErrUnknownSampleFormat  = errors.New("unknown sample format")
	ErrUnknownChannelLayout = errors.New("unknown channel layout")
	ErrBufferTooLarge       = errors.New("sample buffer too large")
	ErrShortBuffer          = errors.New("sample buffer too short")
	ErrRescaleOverflow      = errors.New("rescaled value out of range")
)
