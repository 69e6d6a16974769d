// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	ErrSendPacket   = errors.New("error sending packet to decoder")
	ErrReceiveFrame = errors.New("error receiving frame from decoder")
	ErrConvert      = errors.New("error converting decoded frame")
	ErrEmit         = errors.New("error emitting converted samples")
)
