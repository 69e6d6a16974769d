// SPDX-License-Identifier: EPL-2.0

// Package decode runs the send/receive handshake with a codec.Decoder and
// passes each decoded frame through a converter.
//
// Decode returns MoreInputNeeded once the decoder asks for another packet and
// EndOfStream once a drained decoder has no frames left. Any other decoder
// error is fatal for the session. The reusable frame is released after every
// conversion, whether it succeeded or not.
package decode
