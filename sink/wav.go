// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/resample"
)

const (
	wavHeaderSize = 44

	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// WriteHeader writes a canonical 44-byte WAV header for dataSize bytes of
// interleaved samples described by p.
func WriteHeader(w io.Writer, p audio.StreamParameters, dataSize uint32) error {
	tag, err := wavFormatTag(p.Format)
	if err != nil {
		return err
	}
	numChannels := uint16(p.ChannelCount())
	bytesPerSample := uint16(p.Format.BytesPerSample())
	blockAlign := numChannels * bytesPerSample
	byteRate := uint32(p.SampleRate) * uint32(blockAlign)

	// Pre-allocate buffer for entire header (44 bytes)
	header := make([]byte, wavHeaderSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize(dataSize))
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], tag)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(p.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bytesPerSample*8)

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write WAV header: %w", err)
	}
	return nil
}

func wavFormatTag(f audio.SampleFormat) (uint16, error) {
	switch f.Packed() {
	case audio.FormatU8, audio.FormatS16, audio.FormatS32:
		return wavFormatPCM, nil
	case audio.FormatF32, audio.FormatF64:
		return wavFormatFloat, nil
	}
	return 0, fmt.Errorf("%w: %s in WAV", ErrUnsupportedFormat, f)
}

// riffSize includes the pad byte of an odd-sized data chunk.
func riffSize(dataSize uint32) uint32 {
	return 36 + dataSize + dataSize&1
}

// WAVSink writes a WAV file. Samples are always interleaved; the header
// sizes are patched on Close.
type WAVSink struct {
	ws      io.WriteSeeker
	w       *bufio.Writer
	params  audio.StreamParameters
	written int64
	closed  bool
}

// OpenWAV creates or truncates the file at path and writes a provisional
// header.
func OpenWAV(path string, p audio.StreamParameters) (*WAVSink, error) {
	if _, err := wavFormatTag(p.Format); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	s, err := NewWAV(f, p)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// NewWAV writes a provisional header to ws. Close closes ws when it is an
// io.Closer.
func NewWAV(ws io.WriteSeeker, p audio.StreamParameters) (*WAVSink, error) {
	p.Format = p.Format.Packed()
	s := &WAVSink{ws: ws, w: bufio.NewWriterSize(ws, 64*1024), params: p}
	if err := WriteHeader(s.w, p, 0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WAVSink) WriteSet(set *resample.SampleSet) error {
	if s.closed {
		return ErrClosed
	}
	packed := *set
	packed.Format = set.Format.Packed()
	if s.written+int64(packed.Len()) > math.MaxUint32-wavHeaderSize {
		return ErrTooLarge
	}
	n, err := packed.WriteTo(s.w)
	s.written += n
	return err
}

func (s *WAVSink) Written() int64 { return s.written }

// Close pads the data chunk, patches the sizes and closes the output.
func (s *WAVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.finish()
	if c, ok := s.ws.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("close WAV output: %w", err)
	}
	return nil
}

func (s *WAVSink) finish() error {
	dataSize := uint32(s.written)
	if dataSize&1 == 1 {
		if err := s.w.WriteByte(0); err != nil {
			return err
		}
	}
	if err := s.w.Flush(); err != nil {
		return err
	}

	var b [4]byte
	patches := []struct {
		off int64
		val uint32
	}{
		{4, riffSize(dataSize)},
		{40, dataSize},
	}
	for _, p := range patches {
		if _, err := s.ws.Seek(p.off, io.SeekStart); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(b[:], p.val)
		if _, err := s.ws.Write(b[:]); err != nil {
			return err
		}
	}
	_, err := s.ws.Seek(0, io.SeekEnd)
	return err
}
