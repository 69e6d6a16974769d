// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrAgain means the decoder needs more input before it can return a
	// frame, or has a frame ready and cannot accept input yet.
	ErrAgain = errors.New("resource temporarily unavailable")
	// ErrEOF means the decoder has been drained and will return no more
	// frames.
	ErrEOF = errors.New("end of stream")

	ErrDecoderNotFound = errors.New("decoder not found")
	ErrInvalidParams   = errors.New("invalid codec parameters")
	ErrInvalidData     = errors.New("invalid data found when processing input")
	ErrNotOpen         = errors.New("decoder is not open")
)
