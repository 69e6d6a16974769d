// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audtrans/audio"
)

const mixLevel = math.Sqrt2 / 2 // -3 dB

// foldTargets lists where a position missing from the output goes.
var foldTargets = map[audio.ChannelLayout][]audio.ChannelLayout{
	audio.ChFrontCenter:        {audio.ChFrontLeft, audio.ChFrontRight},
	audio.ChBackCenter:         {audio.ChFrontLeft, audio.ChFrontRight},
	audio.ChFrontLeftOfCenter:  {audio.ChFrontLeft},
	audio.ChFrontRightOfCenter: {audio.ChFrontRight},
	audio.ChSideLeft:           {audio.ChBackLeft, audio.ChFrontLeft},
	audio.ChSideRight:          {audio.ChBackRight, audio.ChFrontRight},
	audio.ChBackLeft:           {audio.ChSideLeft, audio.ChFrontLeft},
	audio.ChBackRight:          {audio.ChSideRight, audio.ChFrontRight},
}

// mixMatrix builds m[out][in] gains mapping the input layout onto the output
// layout. A mono output averages every input channel and a mono input is
// copied to every non-LFE output channel. Otherwise matching positions pass
// through, missing ones fold into their nearest neighbour and LFE is dropped.
// Rows summing above one are normalized so the mix cannot clip.
func mixMatrix(in, out audio.ChannelLayout) [][]float64 {
	inPos := in.Positions()
	outPos := out.Positions()

	m := make([][]float64, len(outPos))
	for o := range m {
		m[o] = make([]float64, len(inPos))
	}

	switch {
	case in == out:
		for i := range m {
			m[i][i] = 1
		}
		return m
	case len(outPos) == 1:
		inv := 1 / float64(len(inPos))
		for k := range inPos {
			m[0][k] = inv
		}
		return m
	case len(inPos) == 1:
		for o, pos := range outPos {
			if pos != audio.ChLowFrequency {
				m[o][0] = 1
			}
		}
		return m
	}

	for k, pos := range inPos {
		if o := out.Index(pos); o >= 0 {
			m[o][k] = 1
			continue
		}
		targets := foldTargets[pos]
		// Side and back pairs fold into the first target present.
		single := len(targets) == 2 && targets[0] != audio.ChFrontLeft
		for _, t := range targets {
			o := out.Index(t)
			if o < 0 {
				continue
			}
			m[o][k] = mixLevel
			if single {
				break
			}
		}
	}

	for o := range m {
		var sum float64
		for _, g := range m[o] {
			sum += g
		}
		if sum > 1 {
			for k := range m[o] {
				m[o][k] /= sum
			}
		}
	}
	return m
}
