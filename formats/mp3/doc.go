// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides the MPEG audio container reader and the MP3 codec.
//
// The Format splits an elementary stream into frames. It skips ID3v2 tags,
// resynchronises on the next valid frame header after garbage and stops at
// an ID3v1 trailer. Layer I and II streams are demuxed too but have no
// decoder.
//
// The Codec wraps github.com/hajimehoshi/go-mp3. go-mp3 reads its input
// itself, so packets are queued and a frame is decoded only once the
// following packet is queued or the stream is draining.
//
// # Output
//
// go-mp3 always produces interleaved stereo 16-bit samples; mono files are
// duplicated on both channels.
package mp3
