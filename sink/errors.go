// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	ErrOpen              = errors.New("could not open the output")
	ErrUnsupportedFormat = errors.New("sample format not supported by the container")
	ErrTooLarge          = errors.New("output exceeds the container size limit")
	ErrClosed            = errors.New("sink is closed")
)
