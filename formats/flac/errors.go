// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrNotFlacFile indicates the input does not start with the fLaC marker
	ErrNotFlacFile = errors.New("not a FLAC file")

	// ErrBadMetadata indicates a truncated or malformed metadata block
	ErrBadMetadata = errors.New("invalid FLAC metadata")

	// ErrStreamChanged indicates a frame that disagrees with STREAMINFO
	ErrStreamChanged = errors.New("FLAC frame does not match the stream")
)
