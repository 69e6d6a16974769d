// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
)

// Ogg page header flags.
const (
	OggContinued = 0x01
	OggBOS       = 0x02
	OggEOS       = 0x04
)

var oggCRC = func() (t [256]uint32) {
	for i := range t {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

// OggPage encodes one page holding the given packets. The last packet is
// left open (continued on the next page) when open is true.
func OggPage(serial, seq uint32, flags byte, granule int64, open bool, packets ...[]byte) []byte {
	var lacing []byte
	var body bytes.Buffer
	for i, p := range packets {
		n := len(p)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		if !open || i < len(packets)-1 {
			lacing = append(lacing, byte(n))
		}
		body.Write(p)
	}

	page := make([]byte, 27, 27+len(lacing)+body.Len())
	copy(page, "OggS")
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:], uint64(granule))
	binary.LittleEndian.PutUint32(page[14:], serial)
	binary.LittleEndian.PutUint32(page[18:], seq)
	page[26] = byte(len(lacing))
	page = append(page, lacing...)
	page = append(page, body.Bytes()...)

	var crc uint32
	for _, b := range page {
		crc = crc<<8 ^ oggCRC[byte(crc>>24)^b]
	}
	binary.LittleEndian.PutUint32(page[22:], crc)
	return page
}

// OggStream builds a single logical stream: the first packet goes on its
// own BOS page and every following packet on a page of its own, the last
// one flagged EOS.
func OggStream(serial uint32, packets ...[]byte) []byte {
	var out bytes.Buffer
	for i, p := range packets {
		var flags byte
		switch {
		case i == 0:
			flags = OggBOS
		case i == len(packets)-1:
			flags = OggEOS
		}
		out.Write(OggPage(serial, uint32(i), flags, int64(i), false, p))
	}
	return out.Bytes()
}

// VorbisIdent is a Vorbis identification header.
func VorbisIdent(channels, rate int) []byte {
	b := make([]byte, 30)
	b[0] = 1
	copy(b[1:], "vorbis")
	b[11] = byte(channels)
	binary.LittleEndian.PutUint32(b[12:], uint32(rate))
	b[28] = 0xb8 // block sizes 256/2048
	b[29] = 1
	return b
}

// OpusHead is an Opus identification header.
func OpusHead(channels, inputRate int) []byte {
	b := make([]byte, 19)
	copy(b, "OpusHead")
	b[8] = 1
	b[9] = byte(channels)
	binary.LittleEndian.PutUint16(b[10:], 312)
	binary.LittleEndian.PutUint32(b[12:], uint32(inputRate))
	return b
}
