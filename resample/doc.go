// SPDX-License-Identifier: EPL-2.0

// Package resample converts decoded audio frames to a target sample rate,
// sample format and channel layout.
//
// # Converter
//
// A Converter is configured once with the input and output parameters and
// then fed frames one at a time:
//
//	conv, err := resample.New(in, out)
//	if err != nil {
//	    return err
//	}
//	defer conv.Close()
//
//	set, err := conv.Convert(frame)
//	if err != nil {
//	    return err
//	}
//	set.WriteTo(w)
//
// Each call returns a SampleSet with one byte buffer per output channel.
// Samples the resampler holds back for interpolation are returned by later
// calls; Flush returns whatever is left at the end of the stream.
//
// The destination buffer only grows. MaxCapacity reports the largest sample
// count it has been sized for.
//
// # Processing
//
// Input is first remixed to the output layout: a mono output averages all
// input channels, a mono input is duplicated, and other layouts map by
// speaker position with the -3 dB fold-down of centre, side and back
// channels. When downsampling a one-pole low-pass filter runs before the
// cubic (Catmull-Rom) interpolator. Equal rates skip interpolation, so a
// same-format conversion is bit exact.
//
// Output positions advance in exact integer steps, so the number of samples
// produced over a whole stream is ceil(inputSamples*outRate/inRate).
package resample
