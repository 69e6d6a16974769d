// SPDX-License-Identifier: EPL-2.0

// Package audio holds the types shared by demuxers, decoders and the
// converter: stream parameters, packets, frames, sample formats and channel
// layouts.
//
// # Sample Formats
//
// Samples are stored as little-endian bytes. Packed formats interleave the
// channels in a single plane:
//
//	L0 R0 L1 R1 ...
//
// Planar formats (the ones with a P suffix) hold one plane per channel:
//
//	plane 0: L0 L1 L2 ...
//	plane 1: R0 R1 R2 ...
//
// # Channel Layouts
//
// A ChannelLayout is a bitmask of speaker positions. Channels inside a frame
// follow the bit order, lowest bit first, so stereo is always left then
// right and 5.1 is FL FR FC LFE SL SR.
//
// # Buffer Sizes
//
// SamplesBufferSize and AllocSamples compute and allocate plane buffers,
// and Rescale computes a*b/c without overflow. Sample counts after a rate
// change are derived with RescaleCount, which rounds up:
//
//	n, _ := audio.RescaleCount(1152, 16000, 44100) // 418
package audio
