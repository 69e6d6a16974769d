// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/internal/audiotest"
	"github.com/ik5/audtrans/resample"
)

var mono16k = audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 16000, Format: audio.FormatS16}

// recordingConverter passes frames through and records what it saw.
type recordingConverter struct {
	seen     []int
	err      error
	flushErr error
	flushed  bool
}

func (c *recordingConverter) Convert(frame *audio.Frame) (*resample.SampleSet, error) {
	c.seen = append(c.seen, frame.NbSamples)
	if c.err != nil {
		return nil, c.err
	}
	return &resample.SampleSet{
		Channels: [][]byte{append([]byte(nil), frame.Data[0]...)},
		LineSize: frame.LineSize,
		Samples:  frame.NbSamples,
		Format:   frame.Format,
	}, nil
}

func (c *recordingConverter) Flush() (*resample.SampleSet, error) {
	c.flushed = true
	if c.flushErr != nil {
		return nil, c.flushErr
	}
	return &resample.SampleSet{Channels: [][]byte{{}}, Format: audio.FormatS16}, nil
}

func newTestLoop(dec codec.Decoder, conv FrameConverter) (*Loop, *bytes.Buffer) {
	var out bytes.Buffer
	return New(dec, conv, func(set *resample.SampleSet) error {
		_, err := set.WriteTo(&out)
		return err
	}), &out
}

func TestLoop_DecodeUntilAgain(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewMockDecoder(audiotest.NewSineSource(mono16k, 1000, 440), 100)
	dec.FramesPerPacket = 3
	conv := &recordingConverter{}
	loop, out := newTestLoop(dec, conv)

	status, err := loop.Decode(&audio.Packet{Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, MoreInputNeeded, status)
	assert.Equal(t, []int{100, 100, 100}, conv.seen)
	assert.Equal(t, int64(3), loop.Frames())
	assert.Equal(t, int64(300), loop.Samples())
	assert.Equal(t, 600, out.Len())
}

func TestLoop_FlushReachesEndOfStream(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewMockDecoder(audiotest.NewSineSource(mono16k, 250, 440), 100)
	conv := &recordingConverter{}
	loop, out := newTestLoop(dec, conv)

	for range 3 {
		_, err := loop.Decode(&audio.Packet{Data: []byte{1}})
		require.NoError(t, err)
	}
	status, err := loop.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, EndOfStream, status)
	assert.Equal(t, []int{100, 100, 50}, conv.seen)
	assert.Equal(t, 500, out.Len())
}

func TestLoop_Flush(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewMockDecoder(audiotest.NewSilentSource(mono16k, 100), 100)
	conv := &recordingConverter{}
	loop, _ := newTestLoop(dec, conv)

	require.NoError(t, loop.Flush())
	assert.True(t, conv.flushed)
	assert.Equal(t, 1, dec.Sent)

	conv.flushErr = errors.New("boom")
	err := loop.Flush()
	require.ErrorIs(t, err, ErrConvert)
}

func TestLoop_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(*audiotest.MockDecoder, *recordingConverter)
		want  error
	}{
		{"send", func(d *audiotest.MockDecoder, _ *recordingConverter) { d.SendErr = boom }, ErrSendPacket},
		{"receive", func(d *audiotest.MockDecoder, _ *recordingConverter) { d.ReceiveErr = boom }, ErrReceiveFrame},
		{"convert", func(_ *audiotest.MockDecoder, c *recordingConverter) { c.err = boom }, ErrConvert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := audiotest.NewMockDecoder(audiotest.NewSilentSource(mono16k, 100), 100)
			conv := &recordingConverter{}
			tt.setup(dec, conv)
			loop, _ := newTestLoop(dec, conv)

			_, err := loop.Decode(&audio.Packet{Data: []byte{1}})
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestLoop_DrainErrorIsFatal(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt tail")
	dec := audiotest.NewMockDecoder(audiotest.NewSilentSource(mono16k, 100), 100)
	dec.DrainErr = boom
	loop, _ := newTestLoop(dec, &recordingConverter{})

	_, err := loop.Decode(nil)
	require.ErrorIs(t, err, ErrReceiveFrame)
	require.ErrorIs(t, err, boom)
}

func TestLoop_FrameReleasedAfterConversion(t *testing.T) {
	t.Parallel()

	for _, convErr := range []error{nil, errors.New("boom")} {
		dec := audiotest.NewMockDecoder(audiotest.NewSilentSource(mono16k, 100), 100)
		loop, _ := newTestLoop(dec, &recordingConverter{err: convErr})

		_, _ = loop.Decode(&audio.Packet{Data: []byte{1}})
		assert.Nil(t, loop.frame.Data, "frame data kept (convert error %v)", convErr)
		assert.Zero(t, loop.frame.NbSamples)
	}
}

func TestLoop_EmitError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	dec := audiotest.NewMockDecoder(audiotest.NewSilentSource(mono16k, 100), 100)
	loop := New(dec, &recordingConverter{}, func(*resample.SampleSet) error { return boom })

	_, err := loop.Decode(&audio.Packet{Data: []byte{1}})
	require.ErrorIs(t, err, ErrEmit)
	assert.Zero(t, loop.Samples())
}

func TestLoop_WithResampler(t *testing.T) {
	t.Parallel()

	in := audio.StreamParameters{Layout: audio.LayoutStereo, SampleRate: 44100, Format: audio.FormatF32P}
	dec := audiotest.NewMockDecoder(audiotest.NewSineSource(in, 44100, 440), 1152)
	conv, err := resample.New(in, mono16k)
	require.NoError(t, err)
	loop, out := newTestLoop(dec, conv)

	for {
		_, err := loop.Decode(&audio.Packet{Data: []byte{1}})
		require.NoError(t, err)
		if dec.Source.Remaining() == 0 {
			break
		}
	}
	require.NoError(t, loop.Flush())

	assert.InDelta(t, 16000, loop.Samples(), 1)
	assert.Equal(t, int(loop.Samples())*2, out.Len())
}
