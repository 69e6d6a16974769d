// SPDX-License-Identifier: EPL-2.0

// Package flac provides the native FLAC container reader and codec, built on
// github.com/mewkiz/flac.
//
// The demuxer reads STREAMINFO with flac.New, skips the remaining metadata
// blocks and returns one packet per frame. The codec parses each packet
// again with frame.Parse, which also undoes the inter-channel decorrelation.
//
// # Output Format
//
//   - Up to 16 bits per sample: planar signed 16-bit
//   - 17 to 32 bits per sample: planar signed 32-bit
//
// Samples are shifted left to fill the output width, so 8-bit and 24-bit
// streams keep their full scale.
package flac
