// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds helpers shared by the package tests: synthetic
// signal sources, encoders for them and scripted codec and container mocks.
package audiotest

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/utils"
)

// Waveform returns the value of one sample in [-1, 1].
type Waveform func(sample int, channel int) float64

// Source generates decoded frames of a synthetic signal.
type Source struct {
	Params    audio.StreamParameters
	Total     int // samples per channel
	generated int
	waveform  Waveform
}

// NewSource creates a source of total samples per channel.
func NewSource(p audio.StreamParameters, total int, waveform Waveform) *Source {
	return &Source{Params: p, Total: total, waveform: waveform}
}

// NewSilentSource creates a source that generates silence.
func NewSilentSource(p audio.StreamParameters, total int) *Source {
	return NewSource(p, total, func(int, int) float64 { return 0 })
}

// NewSineSource creates a source that generates the same sine on every channel.
func NewSineSource(p audio.StreamParameters, total int, frequency float64) *Source {
	return NewSource(p, total, Sine(p.SampleRate, frequency, 0.5))
}

// NewConstantSource creates a source with a constant value.
func NewConstantSource(p audio.StreamParameters, total int, value float64) *Source {
	return NewSource(p, total, func(int, int) float64 { return value })
}

// Sine is a sine waveform of the given amplitude.
func Sine(rate int, frequency, amplitude float64) Waveform {
	return func(sample, _ int) float64 {
		t := float64(sample) / float64(rate)
		return amplitude * math.Sin(2*math.Pi*frequency*t)
	}
}

// Reset rewinds the source.
func (s *Source) Reset() { s.generated = 0 }

// Remaining is the number of samples per channel left.
func (s *Source) Remaining() int { return s.Total - s.generated }

// ReadFrame fills frame with up to n samples. It returns io.EOF once the
// source is exhausted and leaves frame untouched in that case.
func (s *Source) ReadFrame(frame *audio.Frame, n int) error {
	n = min(n, s.Remaining())
	if n <= 0 {
		return io.EOF
	}
	start := s.generated
	planes := Encode(s.Params, n, func(i, ch int) float64 {
		return s.waveform(start+i, ch)
	})
	if err := frame.Fill(s.Params, n, planes); err != nil {
		return err
	}
	frame.PTS = int64(start)
	s.generated += n
	return nil
}

// Encode renders n samples of waveform in p's sample format.
func Encode(p audio.StreamParameters, n int, waveform Waveform) [][]byte {
	channels := p.ChannelCount()
	planes, _, err := audio.AllocSamples(channels, n, p.Format, 1)
	if err != nil {
		panic(err)
	}
	for i := range n {
		for ch := range channels {
			PutSample(planes, p.Format, channels, ch, i, waveform(i, ch))
		}
	}
	return planes
}

// PutSample encodes v as sample i of channel ch.
func PutSample(planes [][]byte, f audio.SampleFormat, channels, ch, i int, v float64) {
	bps := f.BytesPerSample()
	plane, pos := 0, (i*channels+ch)*bps
	if f.IsPlanar() {
		plane, pos = ch, i*bps
	}
	b := planes[plane][pos:]

	switch f.Packed() {
	case audio.FormatU8:
		b[0] = utils.FloatToU8(v)
	case audio.FormatS16:
		binary.LittleEndian.PutUint16(b, uint16(utils.FloatToS16(v)))
	case audio.FormatS32:
		binary.LittleEndian.PutUint32(b, uint32(utils.FloatToS32(v)))
	case audio.FormatF32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case audio.FormatF64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// S16 decodes little-endian 16-bit samples.
func S16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}
