// SPDX-License-Identifier: EPL-2.0

// Package ogg reads the Ogg container.
//
// Pages are checked against their CRC and reassembled into packets per
// logical stream. The first packet of each stream identifies the codec:
// Vorbis and Opus streams are reported as audio and their header packets are
// handed to the decoder as Parameters.ExtraData instead of being returned by
// ReadPacket. Other streams are reported with codec.IDNone.
//
// The duration of a file holding a single Vorbis stream comes from
// github.com/jfreymuth/oggvorbis.
package ogg
