// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	// ErrNotOggFile indicates the input does not start with an Ogg page
	ErrNotOggFile = errors.New("not an Ogg file")

	// ErrBadPage indicates a page with an invalid header or checksum
	ErrBadPage = errors.New("invalid Ogg page")

	// ErrNoStreams indicates no logical stream began before the audio data
	ErrNoStreams = errors.New("no Ogg logical streams")
)
