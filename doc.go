// SPDX-License-Identifier: EPL-2.0

// Package audtrans decodes the audio of a media file and converts it to a
// fixed sample rate, sample format and channel layout.
//
// A conversion opens the input, picks its best audio stream, finds a
// decoder for it and writes every decoded frame through a converter to an
// output sink:
//
//	tr := audtrans.New("speech.ogg", audtrans.DefaultConfig())
//	if err := tr.Convert("speech.raw"); err != nil {
//		fmt.Println("error code:", audtrans.CodeOf(err).String())
//	}
//
// DefaultConfig targets 16 kHz signed 16-bit mono. The raw output holds the
// converted samples back to back with no header; WithSink(sink.WAV) writes
// a WAV file instead.
//
// # Supported Inputs
//
//   - WAV and AIFF PCM via formats/wav and formats/aiff
//   - MP3 via formats/mp3
//   - FLAC via formats/flac
//   - Ogg Vorbis and Ogg Opus via formats/ogg, formats/vorbis and formats/opus
//
// # Errors
//
// Every failed conversion returns an *Error carrying the ErrorCode of the
// stage that failed. Codes compare with errors.Is and print as
// "<number> - <message>".
package audtrans
