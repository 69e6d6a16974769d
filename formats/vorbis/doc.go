// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides the Vorbis codec.
//
// This package uses github.com/jfreymuth/vorbis to decode the packets the
// Ogg demuxer splits out. The three header packets travel in
// codec.Parameters.ExtraData and are read when the decoder is opened.
//
// # Output Format
//
// Vorbis decoder output:
//   - Sample format: packed float32 in range [-1.0, 1.0]
//   - Channels: as coded, reordered from Vorbis order to the frame order
//     of the reported layout (up to 7.1)
//   - Sample rate: as coded
//
// The first audio packet of a stream only primes the decoder and yields no
// frame.
package vorbis
