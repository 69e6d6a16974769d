// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/formats/aiff"
	"github.com/ik5/audtrans/formats/flac"
	"github.com/ik5/audtrans/formats/mp3"
	"github.com/ik5/audtrans/formats/ogg"
	"github.com/ik5/audtrans/formats/opus"
	"github.com/ik5/audtrans/formats/pcm"
	"github.com/ik5/audtrans/formats/vorbis"
	"github.com/ik5/audtrans/formats/wav"
)

// DefaultFormats returns a registry with every built-in container. MPEG
// audio is probed last since its frame sync is the weakest signature.
func DefaultFormats() *container.Registry {
	reg := container.NewRegistry()
	reg.Register(wav.Format{})
	reg.Register(aiff.Format{})
	reg.Register(flac.Format{})
	reg.Register(ogg.Format{})
	reg.Register(mp3.Format{})
	return reg
}

// DefaultCodecs returns a registry with every built-in decoder.
func DefaultCodecs() *codec.Registry {
	reg := codec.NewRegistry()
	reg.Register(pcm.Codec{})
	reg.Register(mp3.Codec{})
	reg.Register(vorbis.Codec{})
	reg.Register(opus.Codec{})
	reg.Register(flac.Codec{})
	return reg
}
