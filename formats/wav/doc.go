// SPDX-License-Identifier: EPL-2.0

// Package wav provides the WAV container reader.
//
// This package uses github.com/go-audio/wav to validate the RIFF header,
// read the fmt chunk and locate the data chunk. The PCM data is then split
// into packets of FramesPerPacket sample frames and decoded by the pcm codec.
//
// # Supported Formats
//
//   - PCM 8, 16, 24 and 32-bit (format tag 1 and WAVE_FORMAT_EXTENSIBLE)
//   - IEEE float 32 and 64-bit (format tag 3)
//   - Any channel count and sample rate
//
// # Usage
//
//	reg := container.NewRegistry()
//	reg.Register(wav.Format{})
//
//	in, err := container.Open("voice.wav", reg)
//
// WAV output is written by the sink package.
package wav
