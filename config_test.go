// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ik5/audtrans/audio"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"stereo float", Config{SampleRate: 48000, Format: audio.FormatF32, Layout: audio.LayoutStereo}, false},
		{"planar", Config{SampleRate: 8000, Format: audio.FormatS16P, Layout: audio.LayoutStereo}, false},
		{"zero rate", Config{Format: audio.FormatS16, Layout: audio.LayoutMono}, true},
		{"negative rate", Config{SampleRate: -1, Format: audio.FormatS16, Layout: audio.LayoutMono}, true},
		{"no format", Config{SampleRate: 16000, Format: audio.FormatNone, Layout: audio.LayoutMono}, true},
		{"no layout", Config{SampleRate: 16000, Format: audio.FormatS16}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, audio.ErrInvalidParameters)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Params(t *testing.T) {
	t.Parallel()

	p := DefaultConfig().Params()
	assert.Equal(t, 16000, p.SampleRate)
	assert.Equal(t, audio.FormatS16, p.Format)
	assert.Equal(t, 1, p.ChannelCount())
	assert.Equal(t, p.String(), DefaultConfig().String())
}
