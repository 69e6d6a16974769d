// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math/bits"
	"strings"
)

// ChannelLayout is a bitmask of speaker positions. Channel order inside a
// frame follows the bit order, lowest bit first. Zero means "unknown".
type ChannelLayout uint64

const (
	ChFrontLeft ChannelLayout = 1 << iota
	ChFrontRight
	ChFrontCenter
	ChLowFrequency
	ChBackLeft
	ChBackRight
	ChFrontLeftOfCenter
	ChFrontRightOfCenter
	ChBackCenter
	ChSideLeft
	ChSideRight
)

const (
	LayoutUnknown ChannelLayout = 0
	LayoutMono                  = ChFrontCenter
	LayoutStereo                = ChFrontLeft | ChFrontRight
	Layout2Point1               = LayoutStereo | ChLowFrequency
	Layout4Point0               = LayoutStereo | ChFrontCenter | ChBackCenter
	Layout5Point0               = LayoutStereo | ChFrontCenter | ChSideLeft | ChSideRight
	Layout5Point1               = Layout5Point0 | ChLowFrequency
	Layout6Point1               = Layout5Point1 | ChBackCenter
	Layout7Point1               = Layout5Point1 | ChBackLeft | ChBackRight
)

var layoutNames = []struct {
	name   string
	layout ChannelLayout
}{
	{"mono", LayoutMono},
	{"stereo", LayoutStereo},
	{"2.1", Layout2Point1},
	{"4.0", Layout4Point0},
	{"5.0", Layout5Point0},
	{"5.1", Layout5Point1},
	{"6.1", Layout6Point1},
	{"7.1", Layout7Point1},
}

// Channels is the number of speaker positions set in the layout.
func (l ChannelLayout) Channels() int {
	return bits.OnesCount64(uint64(l))
}

// Has reports whether every position in ch is present in l.
func (l ChannelLayout) Has(ch ChannelLayout) bool {
	return ch != 0 && l&ch == ch
}

// Index returns the position of the single-bit channel ch inside the
// layout's channel order, or -1.
func (l ChannelLayout) Index(ch ChannelLayout) int {
	if !l.Has(ch) || bits.OnesCount64(uint64(ch)) != 1 {
		return -1
	}
	return bits.OnesCount64(uint64(l & (ch - 1)))
}

// Positions lists the single-bit channels of l in frame order.
func (l ChannelLayout) Positions() []ChannelLayout {
	out := make([]ChannelLayout, 0, l.Channels())
	for rest := uint64(l); rest != 0; rest &= rest - 1 {
		out = append(out, ChannelLayout(rest&-rest))
	}
	return out
}

func (l ChannelLayout) String() string {
	if l == LayoutUnknown {
		return "unknown"
	}
	for _, n := range layoutNames {
		if n.layout == l {
			return n.name
		}
	}
	return fmt.Sprintf("0x%x", uint64(l))
}

// DefaultLayout returns the conventional layout for n channels, or
// LayoutUnknown when there is none.
func DefaultLayout(n int) ChannelLayout {
	for _, l := range layoutNames {
		if l.layout.Channels() == n {
			return l.layout
		}
	}
	return LayoutUnknown
}

// ParseChannelLayout accepts a layout name ("mono", "5.1"), a channel count
// ("2c" or "2"), or a hex mask ("0x3").
func ParseChannelLayout(name string) (ChannelLayout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range layoutNames {
		if l.name == name {
			return l.layout, nil
		}
	}
	var mask uint64
	if _, err := fmt.Sscanf(name, "0x%x", &mask); err == nil && mask != 0 {
		return ChannelLayout(mask), nil
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSuffix(name, "c"), "%d", &n); err == nil {
		if l := DefaultLayout(n); l != LayoutUnknown {
			return l, nil
		}
	}
	return LayoutUnknown, fmt.Errorf("%w: %q", ErrUnknownChannelLayout, name)
}
