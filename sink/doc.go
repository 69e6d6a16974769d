// SPDX-License-Identifier: EPL-2.0

// Package sink writes converted sample sets to a file.
//
// The raw sink stores the samples with no header: a planar target is written
// as each channel's buffer in turn, a packed target as interleaved frames.
// The WAV sink always interleaves and patches the RIFF sizes on Close.
package sink
