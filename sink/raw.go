// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audtrans/resample"
)

// RawSink writes sample sets back to back with no header. Planar sets are
// written one channel buffer after the other. Packed multi-channel sets are
// written interleaved one sample frame at a time: L0 R0 L1 R1 ...
type RawSink struct {
	f       io.Closer
	w       *bufio.Writer
	written int64
	closed  bool
}

// OpenRaw creates or truncates the file at path.
func OpenRaw(path string) (*RawSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return NewRaw(f), nil
}

// NewRaw wraps w. Close closes w when it is an io.Closer.
func NewRaw(w io.Writer) *RawSink {
	s := &RawSink{w: bufio.NewWriterSize(w, 64*1024)}
	if c, ok := w.(io.Closer); ok {
		s.f = c
	}
	return s
}

func (s *RawSink) WriteSet(set *resample.SampleSet) error {
	if s.closed {
		return ErrClosed
	}
	n, err := set.WriteTo(s.w)
	s.written += n
	return err
}

func (s *RawSink) Written() int64 { return s.written }

func (s *RawSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.w.Flush()
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("close raw output: %w", err)
	}
	return nil
}
