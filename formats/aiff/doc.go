// SPDX-License-Identifier: EPL-2.0

// Package aiff provides the AIFF (Audio Interchange File Format) container
// reader.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// # Supported Formats
//
// Currently supported:
//   - AIFF and uncompressed AIFF-C
//   - PCM 8, 16, 24 and 32-bit
//   - Mono and multi-channel
//   - Any sample rate
//
// # Packets
//
// go-audio hands out samples as ints. The demuxer writes them back as
// big-endian PCM, FramesPerPacket frames per packet, so the pcm codec decodes
// AIFF exactly like any other PCM stream.
package aiff
