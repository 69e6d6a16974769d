// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavFormat = errors.New("unsupported WAV sample format")
	ErrNoPCMChunk           = errors.New("WAV file has no data chunk")
)
