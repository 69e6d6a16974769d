// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"errors"
	"fmt"
)

// ErrorCode is the terminal result of a conversion. The numeric values are
// stable and printed by the command line tool.
type ErrorCode int

const (
	Success ErrorCode = iota
	ErrOpenInput
	ErrStreamInfo
	ErrFindStream
	ErrFindDecoder
	ErrAllocCodec
	ErrCopyCodecParams
	ErrInitDecoder
	ErrOpenOutput
	ErrAllocFrame
	ErrAllocPacket
	ErrResamplerInitData
	ErrInitResampler
	ErrConvertSamples
	ErrSendPacket
	ErrReceiveFrame
	ErrWriteOutput
	ErrCloseOutput
)

var codeMessages = [...]string{
	Success:              "OK",
	ErrOpenInput:         "Could not open the source file!",
	ErrStreamInfo:        "Could not find stream information!",
	ErrFindStream:        "Could not find the best audio stream in the input file!",
	ErrFindDecoder:       "Could not find the codec type!",
	ErrAllocCodec:        "Could not allocate the codec context!",
	ErrCopyCodecParams:   "Could not copy current codec parameters to the decoder context!",
	ErrInitDecoder:       "Could not open the codec!",
	ErrOpenOutput:        "Could not open the destination file stream!",
	ErrAllocFrame:        "Could not allocate the input frame!",
	ErrAllocPacket:       "Could not allocate a packet!",
	ErrResamplerInitData: "Wrong init data values for resampler!",
	ErrInitResampler:     "Could not init the resampler!",
	ErrConvertSamples:    "Error while converting samples!",
	ErrSendPacket:        "Send packet to decoder error!",
	ErrReceiveFrame:      "Receive packet from decoder error!",
	ErrWriteOutput:       "Could not write to the destination file stream!",
	ErrCloseOutput:       "Could not close the destination file stream!",
}

// Message is the human readable description of c.
func (c ErrorCode) Message() string {
	if c < 0 || int(c) >= len(codeMessages) {
		return "(unrecognized error)"
	}
	return codeMessages[c]
}

// Error makes codes usable as errors.Is targets.
func (c ErrorCode) Error() string { return c.Message() }

func (c ErrorCode) String() string {
	return fmt.Sprintf("%d - %s", int(c), c.Message())
}

// Error is a failed conversion: the stage that failed and its cause.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.Message()
	}
	return fmt.Sprintf("%s: %v", e.Code.Message(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches an ErrorCode target against the code.
func (e *Error) Is(target error) bool {
	c, ok := target.(ErrorCode)
	return ok && c == e.Code
}

// CodeOf returns the code carried by err, Success for nil and -1 for
// errors that did not come from a conversion.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c ErrorCode
	if errors.As(err, &c) {
		return c
	}
	return -1
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}
