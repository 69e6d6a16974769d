// SPDX-License-Identifier: EPL-2.0

package container

import "errors"

var (
	ErrOpen          = errors.New("could not open input")
	ErrUnknownFormat = errors.New("unknown container format")
	ErrStreamInfo    = errors.New("could not read stream information")
	ErrNoAudioStream = errors.New("no audio stream found")
	ErrInvalidData   = errors.New("invalid container data")
	ErrClosed        = errors.New("input is closed")
)
