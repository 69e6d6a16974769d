// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"
	"testing"

	"github.com/ik5/audtrans/audio"
)

func TestMixMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   audio.ChannelLayout
		out  audio.ChannelLayout
		want [][]float64
	}{
		{"stereo to mono averages", audio.LayoutStereo, audio.LayoutMono, [][]float64{{0.5, 0.5}}},
		{"mono to stereo duplicates", audio.LayoutMono, audio.LayoutStereo, [][]float64{{1}, {1}}},
		{"identity", audio.LayoutStereo, audio.LayoutStereo, [][]float64{{1, 0}, {0, 1}}},
		{"mono to 2.1 skips LFE", audio.LayoutMono, audio.Layout2Point1, [][]float64{{1}, {1}, {0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mixMatrix(tt.in, tt.out)
			if len(got) != len(tt.want) {
				t.Fatalf("rows = %d, want %d", len(got), len(tt.want))
			}
			for o := range got {
				for k := range got[o] {
					if math.Abs(got[o][k]-tt.want[o][k]) > 1e-12 {
						t.Errorf("m[%d][%d] = %v, want %v", o, k, got[o][k], tt.want[o][k])
					}
				}
			}
		})
	}
}

func TestMixMatrix_DownmixDoesNotClip(t *testing.T) {
	t.Parallel()

	m := mixMatrix(audio.Layout5Point1, audio.LayoutStereo)
	lfe := audio.Layout5Point1.Index(audio.ChLowFrequency)

	for o, row := range m {
		var sum float64
		for _, g := range row {
			sum += g
		}
		if sum > 1+1e-12 {
			t.Errorf("row %d sums to %v", o, sum)
		}
		if row[lfe] != 0 {
			t.Errorf("row %d mixes LFE with gain %v", o, row[lfe])
		}
	}

	fc := audio.Layout5Point1.Index(audio.ChFrontCenter)
	if m[0][fc] == 0 || m[1][fc] == 0 {
		t.Error("front center is not folded into both fronts")
	}
}
