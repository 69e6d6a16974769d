// SPDX-License-Identifier: EPL-2.0

// Package pcm decodes uncompressed PCM packets, as stored in WAV and AIFF
// files, into packed little-endian frames.
package pcm
