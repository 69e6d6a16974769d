// SPDX-License-Identifier: EPL-2.0

package container

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// probeSize is how many leading bytes format probes get to see.
const probeSize = 64

// Input is an opened container.
type Input struct {
	name   string
	format Format
	demux  Demuxer
	file   io.Closer
	closed bool
}

// Open opens the file at path and detects its format.
func Open(path string, reg *Registry) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	in, err := OpenReader(f, path, reg)
	if err != nil {
		f.Close()
		return nil, err
	}
	in.file = f
	return in, nil
}

// OpenReader detects the format of rs and opens a demuxer on it. name is
// only used for extension matching and messages.
func OpenReader(rs io.ReadSeeker, name string, reg *Registry) (*Input, error) {
	header := make([]byte, probeSize)
	n, err := io.ReadFull(rs, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	format, err := reg.Detect(header[:n], filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, name, err)
	}
	demux, err := format.Open(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s as %s: %w", ErrOpen, name, format.Name(), err)
	}
	return &Input{name: name, format: format, demux: demux}, nil
}

func (in *Input) Name() string   { return in.name }
func (in *Input) Format() Format { return in.format }

// FindStreamInfo reads stream parameters. An input without streams is an
// error.
func (in *Input) FindStreamInfo() error {
	if in.closed {
		return ErrClosed
	}
	if err := in.demux.FindStreamInfo(); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamInfo, err)
	}
	if len(in.demux.Streams()) == 0 {
		return fmt.Errorf("%w: no streams", ErrStreamInfo)
	}
	return nil
}

func (in *Input) Streams() []*Stream {
	return in.demux.Streams()
}

// FindBestAudioStream picks the first audio stream with a known codec, or
// the first audio stream when none is known.
func (in *Input) FindBestAudioStream() (*Stream, error) {
	var best *Stream
	for _, s := range in.demux.Streams() {
		if s.MediaType != MediaAudio {
			continue
		}
		if s.Params.ID != codec.IDNone {
			return s, nil
		}
		if best == nil {
			best = s
		}
	}
	if best == nil {
		return nil, ErrNoAudioStream
	}
	return best, nil
}

// ReadPacket reads the next packet. It returns io.EOF at the end.
func (in *Input) ReadPacket(pkt *audio.Packet) error {
	if in.closed {
		return ErrClosed
	}
	return in.demux.ReadPacket(pkt)
}

// Close releases the demuxer and the file. It is safe to call more than
// once.
func (in *Input) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true

	err := in.demux.Close()
	if in.file != nil {
		if cerr := in.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
