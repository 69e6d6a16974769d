// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"

	"github.com/ik5/audtrans/codec"
)

// Rate is the rate every Opus stream decodes at.
const Rate = 48000

// maxPacketSamples is 120 ms at 48 kHz, the longest packet Opus allows.
const maxPacketSamples = 5760

// frameSamples is the frame duration at 48 kHz for each TOC configuration.
var frameSamples = [32]int{
	// SILK-only NB, MB, WB: 10, 20, 40, 60 ms
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	// Hybrid SWB, FB: 10, 20 ms
	480, 960,
	480, 960,
	// CELT-only NB, WB, SWB, FB: 2.5, 5, 10, 20 ms
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
}

// silkOnly reports whether the TOC byte selects a SILK-only configuration.
func silkOnly(toc byte) bool { return toc>>3 < 12 }

// packetSamples returns the duration of a packet in samples at 48 kHz.
func packetSamples(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty packet", codec.ErrInvalidData)
	}
	toc := data[0]
	frames := 1
	switch toc & 0x03 {
	case 1, 2:
		frames = 2
	case 3:
		if len(data) < 2 {
			return 0, fmt.Errorf("%w: missing frame count", codec.ErrInvalidData)
		}
		frames = int(data[1] & 0x3f)
	}
	n := frames * frameSamples[toc>>3]
	if n == 0 || n > maxPacketSamples {
		return 0, fmt.Errorf("%w: %d samples in packet", codec.ErrInvalidData, n)
	}
	return n, nil
}
