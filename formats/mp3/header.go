// SPDX-License-Identifier: EPL-2.0

package mp3

import "github.com/ik5/audtrans/codec"

type mpegVersion int

const (
	mpeg25 mpegVersion = iota
	mpegReserved
	mpeg2
	mpeg1
)

// Bitrates in kbit/s, indexed by [version is MPEG1][layer-1][index].
var bitrates = [2][3][15]int{
	{ // MPEG2 and MPEG2.5
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	},
	{ // MPEG1
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	},
}

var sampleRates = map[mpegVersion][3]int{
	mpeg1:  {44100, 48000, 32000},
	mpeg2:  {22050, 24000, 16000},
	mpeg25: {11025, 12000, 8000},
}

// frameHeader is a decoded 4-byte MPEG audio frame header.
type frameHeader struct {
	version    mpegVersion
	layer      int // 1, 2 or 3
	bitrate    int // kbit/s
	sampleRate int
	padding    bool
	channels   int
}

// parseHeader decodes h. Free-format and reserved values are rejected.
func parseHeader(h []byte) (frameHeader, bool) {
	if len(h) < 4 || h[0] != 0xff || h[1]&0xe0 != 0xe0 {
		return frameHeader{}, false
	}

	version := mpegVersion(h[1] >> 3 & 0x03)
	layerBits := int(h[1] >> 1 & 0x03)
	brIndex := int(h[2] >> 4)
	srIndex := int(h[2] >> 2 & 0x03)
	if version == mpegReserved || layerBits == 0 || brIndex == 0 || brIndex == 15 || srIndex == 3 {
		return frameHeader{}, false
	}

	fh := frameHeader{
		version:    version,
		layer:      4 - layerBits,
		sampleRate: sampleRates[version][srIndex],
		padding:    h[2]&0x02 != 0,
		channels:   2,
	}
	isV1 := 0
	if version == mpeg1 {
		isV1 = 1
	}
	fh.bitrate = bitrates[isV1][fh.layer-1][brIndex]
	if h[3]>>6 == 3 {
		fh.channels = 1
	}
	return fh, true
}

// samplesPerFrame is the number of samples per channel in one frame.
func (h frameHeader) samplesPerFrame() int {
	switch {
	case h.layer == 1:
		return 384
	case h.layer == 3 && h.version != mpeg1:
		return 576
	}
	return 1152
}

// frameLength is the size of the whole frame in bytes, header included.
func (h frameHeader) frameLength() int {
	pad := 0
	if h.padding {
		pad = 1
	}
	if h.layer == 1 {
		return (12*h.bitrate*1000/h.sampleRate + pad) * 4
	}
	return h.samplesPerFrame()/8*h.bitrate*1000/h.sampleRate + pad
}

func (h frameHeader) codecID() codec.ID {
	switch h.layer {
	case 1:
		return codec.IDMP1
	case 2:
		return codec.IDMP2
	}
	return codec.IDMP3
}

// id3v2Size returns the full size of an ID3v2 tag starting at b, or 0.
func id3v2Size(b []byte) int {
	if len(b) < 10 || string(b[0:3]) != "ID3" {
		return 0
	}
	size := int(b[6]&0x7f)<<21 | int(b[7]&0x7f)<<14 | int(b[8]&0x7f)<<7 | int(b[9]&0x7f)
	size += 10
	if b[5]&0x10 != 0 { // footer present
		size += 10
	}
	return size
}
