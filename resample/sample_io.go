// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/utils"
)

// offset returns the plane and byte offset of sample i of channel ch.
func offset(f audio.SampleFormat, channels, ch, i int) (plane, pos int) {
	bps := f.BytesPerSample()
	if f.IsPlanar() {
		return ch, i * bps
	}
	return 0, (i*channels + ch) * bps
}

// loadSample decodes one sample to a float in [-1, 1).
func loadSample(planes [][]byte, f audio.SampleFormat, channels, ch, i int) float64 {
	p, pos := offset(f, channels, ch, i)
	b := planes[p][pos:]

	switch f.Packed() {
	case audio.FormatU8:
		return (float64(b[0]) - 128) / 128
	case audio.FormatS16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case audio.FormatS32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	case audio.FormatF32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case audio.FormatF64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// storeSample encodes v. Integer formats saturate; float formats are
// clipped to [-1, 1].
func storeSample(planes [][]byte, f audio.SampleFormat, channels, ch, i int, v float64) {
	p, pos := offset(f, channels, ch, i)
	b := planes[p][pos:]

	switch f.Packed() {
	case audio.FormatU8:
		b[0] = utils.FloatToU8(v)
	case audio.FormatS16:
		binary.LittleEndian.PutUint16(b, uint16(utils.FloatToS16(v)))
	case audio.FormatS32:
		binary.LittleEndian.PutUint32(b, uint32(utils.FloatToS32(v)))
	case audio.FormatF32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(utils.Clamp(v))))
	case audio.FormatF64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(utils.Clamp(v)))
	}
}

// checkPlanes verifies planes can hold n samples in format f.
func checkPlanes(planes [][]byte, f audio.SampleFormat, channels, n int) bool {
	if n == 0 {
		return true
	}
	_, lineSize, err := audio.SamplesBufferSize(channels, n, f, 1)
	if err != nil {
		return false
	}
	want := 1
	if f.IsPlanar() {
		want = channels
	}
	if len(planes) < want {
		return false
	}
	for _, plane := range planes[:want] {
		if len(plane) < lineSize {
			return false
		}
	}
	return true
}
