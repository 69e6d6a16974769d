// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"
	"io"

	"github.com/ik5/audtrans/audio"
)

// SampleSet is one conversion result: one byte buffer per output channel,
// each LineSize bytes long and holding Samples samples. The buffers are owned
// by the set and stay valid after the converter is reused.
type SampleSet struct {
	Channels [][]byte
	LineSize int
	Samples  int
	Format   audio.SampleFormat
}

// Len is the total number of bytes in the set.
func (s *SampleSet) Len() int {
	return s.LineSize * len(s.Channels)
}

// Bytes returns the set in emission order. Planar sets (and mono) are the
// channel buffers back to back; packed multi-channel sets are interleaved.
func (s *SampleSet) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	if s.Format.IsPlanar() || len(s.Channels) <= 1 {
		for _, ch := range s.Channels {
			out = append(out, ch[:s.LineSize]...)
		}
		return out
	}

	bps := s.Format.BytesPerSample()
	out = out[:s.Len()]
	stride := bps * len(s.Channels)
	for c, ch := range s.Channels {
		for i := range s.Samples {
			copy(out[i*stride+c*bps:], ch[i*bps:(i+1)*bps])
		}
	}
	return out
}

// WriteTo writes the set to w in emission order.
func (s *SampleSet) WriteTo(w io.Writer) (int64, error) {
	if s.Len() == 0 {
		return 0, nil
	}
	n, err := w.Write(s.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("write samples: %w", err)
	}
	return int64(n), nil
}
