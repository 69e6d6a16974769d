// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"fmt"
	"strings"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/resample"
)

// Sink receives converted samples.
type Sink interface {
	// WriteSet writes one sample set in the sink's layout.
	WriteSet(set *resample.SampleSet) error
	// Written is the number of sample bytes written so far.
	Written() int64
	// Close flushes and closes the output. Success of a conversion
	// depends on it.
	Close() error
}

// Opener opens a sink for samples described by p.
type Opener func(path string, p audio.StreamParameters) (Sink, error)

// Raw opens a headerless sink. It ignores p.
func Raw(path string, _ audio.StreamParameters) (Sink, error) {
	return OpenRaw(path)
}

// WAV opens a RIFF/WAVE sink.
func WAV(path string, p audio.StreamParameters) (Sink, error) {
	return OpenWAV(path, p)
}

// ByName returns the opener for "raw" or "wav".
func ByName(name string) (Opener, error) {
	switch strings.ToLower(name) {
	case "", "raw", "pcm":
		return Raw, nil
	case "wav", "wave":
		return WAV, nil
	}
	return nil, fmt.Errorf("%w: container %q", ErrUnsupportedFormat, name)
}
