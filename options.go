// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/sink"
)

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithLogger sets the logger. The default is the standard logrus logger.
func WithLogger(log *logrus.Entry) Option {
	return func(t *Transcoder) {
		if log != nil {
			t.log = log
		}
	}
}

// WithFormats replaces the container formats tried on the input.
func WithFormats(reg *container.Registry) Option {
	return func(t *Transcoder) {
		if reg != nil {
			t.formats = reg
		}
	}
}

// WithCodecs replaces the codecs available for the selected stream.
func WithCodecs(reg *codec.Registry) Option {
	return func(t *Transcoder) {
		if reg != nil {
			t.codecs = reg
		}
	}
}

// WithSink sets how Convert opens its output. The default writes raw
// samples.
func WithSink(open sink.Opener) Option {
	return func(t *Transcoder) {
		if open != nil {
			t.openSink = open
		}
	}
}
