// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
)

// Config is the target of a conversion.
type Config struct {
	SampleRate int
	Format     audio.SampleFormat
	Layout     audio.ChannelLayout
}

// DefaultConfig converts to 16 kHz signed 16-bit mono.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Format:     audio.FormatS16,
		Layout:     audio.LayoutMono,
	}
}

// Validate checks that the target describes real audio with a known layout.
func (c Config) Validate() error {
	if c.Layout == audio.LayoutUnknown {
		return fmt.Errorf("%w: target channel layout is unknown", audio.ErrInvalidParameters)
	}
	return c.Params().Validate()
}

// Params returns the target as stream parameters.
func (c Config) Params() audio.StreamParameters {
	return audio.StreamParameters{
		Layout:     c.Layout,
		SampleRate: c.SampleRate,
		Format:     c.Format,
	}
}

func (c Config) String() string { return c.Params().String() }
