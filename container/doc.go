// SPDX-License-Identifier: EPL-2.0

// Package container opens media files and splits them into packets.
//
// Formats register with a Registry. Open detects the format of a file by
// probing its first bytes and then by extension:
//
//	reg := container.NewRegistry()
//	reg.Register(wav.Format{})
//
//	in, err := container.Open("voice.wav", reg)
//	if err != nil {
//	    return err
//	}
//	defer in.Close()
//
//	if err := in.FindStreamInfo(); err != nil {
//	    return err
//	}
//	stream, err := in.FindBestAudioStream()
//
// Packets of every stream come out of ReadPacket in file order. ReadPacket
// returns io.EOF at the end of the input.
package container
