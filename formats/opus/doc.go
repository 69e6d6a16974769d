// SPDX-License-Identifier: EPL-2.0

// Package opus provides a decoder for SILK-mode Opus using the pure Go
// github.com/pion/opus.
//
// Output is always mono signed 16-bit at 48 kHz. A packet's duration is read
// from its TOC byte. CELT and hybrid packets are reported as invalid data.
package opus
