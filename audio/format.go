// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strings"
)

// SampleFormat tags how a single sample is encoded and whether channels are
// interleaved (packed) or stored one plane per channel (planar).
// All multi-byte samples are little-endian.
type SampleFormat int

const (
	FormatNone SampleFormat = iota
	FormatU8
	FormatS16
	FormatS32
	FormatF32
	FormatF64
	FormatU8P
	FormatS16P
	FormatS32P
	FormatF32P
	FormatF64P
)

var formatNames = map[SampleFormat]string{
	FormatNone: "none",
	FormatU8:   "u8",
	FormatS16:  "s16",
	FormatS32:  "s32",
	FormatF32:  "flt",
	FormatF64:  "dbl",
	FormatU8P:  "u8p",
	FormatS16P: "s16p",
	FormatS32P: "s32p",
	FormatF32P: "fltp",
	FormatF64P: "dblp",
}

func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// Valid reports whether f is one of the known formats other than FormatNone.
func (f SampleFormat) Valid() bool {
	return f > FormatNone && f <= FormatF64P
}

// IsPlanar reports whether every channel lives in its own plane.
func (f SampleFormat) IsPlanar() bool {
	return f >= FormatU8P && f <= FormatF64P
}

// Packed returns the interleaved counterpart of f.
func (f SampleFormat) Packed() SampleFormat {
	if f.IsPlanar() {
		return f - (FormatU8P - FormatU8)
	}
	return f
}

// Planar returns the planar counterpart of f.
func (f SampleFormat) Planar() SampleFormat {
	if f.Valid() && !f.IsPlanar() {
		return f + (FormatU8P - FormatU8)
	}
	return f
}

// BytesPerSample is the encoded size of one sample of one channel, or 0 for
// an invalid format.
func (f SampleFormat) BytesPerSample() int {
	switch f.Packed() {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS32, FormatF32:
		return 4
	case FormatF64:
		return 8
	}
	return 0
}

// ParseSampleFormat accepts the names printed by String, plus a few common
// aliases ("s16le", "f32", "float", "double").
func ParseSampleFormat(name string) (SampleFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "s16le":
		return FormatS16, nil
	case "s32le":
		return FormatS32, nil
	case "f32", "f32le", "float":
		return FormatF32, nil
	case "f64", "f64le", "double":
		return FormatF64, nil
	case "f32p", "floatp":
		return FormatF32P, nil
	case "f64p", "doublep":
		return FormatF64P, nil
	}
	for f, n := range formatNames {
		if f != FormatNone && n == name {
			return f, nil
		}
	}
	return FormatNone, fmt.Errorf("%w: %q", ErrUnknownSampleFormat, name)
}
