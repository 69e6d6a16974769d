// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerSize = 27
	// maxResync bounds how many bytes are skipped looking for a capture
	// pattern.
	maxResync = 64 * 1024
)

const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

var capture = []byte("OggS")

// crcTable is the non-reflected CRC-32 with polynomial 0x04c11db7 that Ogg
// uses.
var crcTable = func() (t [256]uint32) {
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

func crcUpdate(crc uint32, b []byte) uint32 {
	for _, v := range b {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^v]
	}
	return crc
}

type page struct {
	flags   byte
	granule int64
	serial  uint32
	seq     uint32
	lacing  []byte
	body    []byte
	header  [headerSize]byte
}

func (p *page) continued() bool { return p.flags&flagContinued != 0 }
func (p *page) bos() bool       { return p.flags&flagBOS != 0 }
func (p *page) eos() bool       { return p.flags&flagEOS != 0 }

// readPage reads the next page into p and reports how many bytes were
// consumed, garbage included. It returns io.EOF when no further page starts.
func readPage(r *bufio.Reader, p *page) (int64, error) {
	var consumed int64
	for {
		head, err := r.Peek(4)
		if err != nil {
			return consumed, io.EOF
		}
		if bytes.Equal(head, capture) {
			break
		}
		if consumed >= maxResync {
			return consumed, fmt.Errorf("%w: no capture pattern", ErrBadPage)
		}
		r.Discard(1)
		consumed++
	}

	if _, err := io.ReadFull(r, p.header[:]); err != nil {
		return consumed, fmt.Errorf("%w: truncated header", ErrBadPage)
	}
	consumed += headerSize
	h := p.header[:]
	if h[4] != 0 {
		return consumed, fmt.Errorf("%w: version %d", ErrBadPage, h[4])
	}
	p.flags = h[5]
	p.granule = int64(binary.LittleEndian.Uint64(h[6:]))
	p.serial = binary.LittleEndian.Uint32(h[14:])
	p.seq = binary.LittleEndian.Uint32(h[18:])
	want := binary.LittleEndian.Uint32(h[22:])

	p.lacing = grow(p.lacing, int(h[26]))
	if _, err := io.ReadFull(r, p.lacing); err != nil {
		return consumed, fmt.Errorf("%w: truncated segment table", ErrBadPage)
	}
	consumed += int64(len(p.lacing))

	size := 0
	for _, l := range p.lacing {
		size += int(l)
	}
	p.body = grow(p.body, size)
	if _, err := io.ReadFull(r, p.body); err != nil {
		return consumed, fmt.Errorf("%w: truncated body", ErrBadPage)
	}
	consumed += int64(size)

	clear(h[22:26])
	crc := crcUpdate(0, h)
	crc = crcUpdate(crc, p.lacing)
	crc = crcUpdate(crc, p.body)
	if crc != want {
		return consumed, fmt.Errorf("%w: checksum 0x%08x, want 0x%08x", ErrBadPage, crc, want)
	}
	return consumed, nil
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

// segmenter reassembles the packets of one logical stream.
type segmenter struct {
	partial []byte
	open    bool // partial is waiting for its continuation
	lost    bool // skip up to the next packet boundary
}

// feed splits p into packets, calling emit with a copy of each completed one.
func (s *segmenter) feed(p *page, emit func([]byte)) {
	switch {
	case p.continued() && !s.open:
		s.lost = true
	case !p.continued() && s.open:
		s.partial = s.partial[:0]
		s.open = false
	}

	off := 0
	for _, l := range p.lacing {
		seg := p.body[off : off+int(l)]
		off += int(l)
		if !s.lost {
			s.partial = append(s.partial, seg...)
		}
		if l == 255 {
			continue
		}
		if !s.lost {
			emit(append([]byte(nil), s.partial...))
		}
		s.partial = s.partial[:0]
		s.lost = false
	}
	s.open = len(p.lacing) > 0 && p.lacing[len(p.lacing)-1] == 255
	if s.lost {
		s.open = false
	}
}
