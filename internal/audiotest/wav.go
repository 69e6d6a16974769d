// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SineInts returns n interleaved frames of a sine on every channel, scaled
// to the given bit depth.
func SineInts(rate, channels, n, bits int, frequency float64) []int {
	scale := float64(int(1)<<(bits-1) - 1)
	wave := Sine(rate, frequency, 0.5)
	out := make([]int, 0, n*channels)
	for i := range n {
		v := int(math.Round(wave(i, 0) * scale))
		for range channels {
			out = append(out, v)
		}
	}
	return out
}

// WriteWAV writes interleaved integer samples as a PCM WAV file using
// github.com/go-audio/wav.
func WriteWAV(path string, rate, channels, bits int, samples []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bits, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		Data:           samples,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return nil
}

// WriteSineWAV writes n frames of a 440 Hz sine at 16 bits.
func WriteSineWAV(path string, rate, channels, n int) error {
	return WriteWAV(path, rate, channels, 16, SineInts(rate, channels, n, 16, 440))
}
