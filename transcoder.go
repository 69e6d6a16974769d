// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/decode"
	"github.com/ik5/audtrans/resample"
	"github.com/ik5/audtrans/sink"
)

// State is the stage a conversion is in.
type State int

const (
	StateIdle State = iota
	StateOpenInput
	StateInitConverter
	StateStreamLoop
	StateFlush
	StateClose
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateOpenInput:     "open input",
	StateInitConverter: "init converter",
	StateStreamLoop:    "stream loop",
	StateFlush:         "flush",
	StateClose:         "close",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Stats counts the work done by the last conversion.
type Stats struct {
	Packets        int64 // packets of the selected stream sent to the decoder
	SkippedPackets int64 // packets of other streams
	Frames         int64
	Samples        int64 // output samples per channel
	Bytes          int64 // bytes written to the sink
}

// Transcoder converts the audio of one input file to a fixed target format.
// A Transcoder runs one conversion at a time; use one per goroutine.
type Transcoder struct {
	input    string
	cfg      Config
	log      *logrus.Entry
	formats  *container.Registry
	codecs   *codec.Registry
	openSink sink.Opener

	state State
	stats Stats
}

// New creates a transcoder for the file at input. Nothing is opened until
// Convert is called.
func New(input string, cfg Config, opts ...Option) *Transcoder {
	t := &Transcoder{
		input:    input,
		cfg:      cfg,
		log:      logrus.StandardLogger().WithField("component", "audtrans"),
		formats:  DefaultFormats(),
		codecs:   DefaultCodecs(),
		openSink: sink.Raw,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the conversion target.
func (t *Transcoder) Config() Config { return t.cfg }

// State is the stage the last conversion reached.
func (t *Transcoder) State() State { return t.state }

// Stats describes the last conversion.
func (t *Transcoder) Stats() Stats { return t.stats }

// Convert decodes the input and writes the converted samples to outputPath,
// truncating it. The returned error is nil or an *Error.
func (t *Transcoder) Convert(outputPath string) error {
	return t.run(outputPath, func(p audio.StreamParameters) (sink.Sink, error) {
		return t.openSink(outputPath, p)
	})
}

// ConvertTo writes raw converted samples to w. w is not closed.
func (t *Transcoder) ConvertTo(w io.Writer) error {
	return t.run("writer", func(audio.StreamParameters) (sink.Sink, error) {
		// Hide any Close method from the sink.
		return sink.NewRaw(struct{ io.Writer }{w}), nil
	})
}

// session holds everything one conversion acquires.
type session struct {
	in   *container.Input
	dec  codec.Decoder
	out  sink.Sink
	pkt  *audio.Packet
	conv *resample.Converter
	loop *decode.Loop

	closed bool
}

// close releases the session in reverse acquisition order. Only the sink's
// error is returned. It is safe on a partially built session and on repeat
// calls.
func (s *session) close(log *logrus.Entry) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.conv != nil {
		s.conv.Close()
	}
	s.loop = nil
	s.pkt = nil

	var err error
	if s.out != nil {
		err = s.out.Close()
	}
	if s.dec != nil {
		if cerr := s.dec.Close(); cerr != nil {
			log.WithField("error", cerr).Debug("decoder close failed")
		}
	}
	if s.in != nil {
		if cerr := s.in.Close(); cerr != nil {
			log.WithField("error", cerr).Debug("input close failed")
		}
	}
	return err
}

func (t *Transcoder) setState(s State) {
	t.state = s
	t.log.WithFields(logrus.Fields{
		"function": "setState",
		"state":    s.String(),
	}).Debug("state changed")
}

func (t *Transcoder) run(output string, openSink func(audio.StreamParameters) (sink.Sink, error)) (err error) {
	t.stats = Stats{}
	log := t.log.WithFields(logrus.Fields{
		"input":  t.input,
		"output": output,
	})

	s := &session{}
	defer func() {
		t.setState(StateClose)
		t.collect(s)
		cerr := s.close(log)
		if err == nil && cerr != nil {
			err = newError(ErrCloseOutput, cerr)
		}
		t.finish(log, err)
	}()

	if err := t.cfg.Validate(); err != nil {
		return newError(ErrResamplerInitData, err)
	}

	t.setState(StateOpenInput)
	stream, err := t.open(s, log, openSink)
	if err != nil {
		return err
	}

	t.setState(StateInitConverter)
	if err := t.initConverter(s, log); err != nil {
		return err
	}

	t.setState(StateStreamLoop)
	if err := t.streamLoop(s, stream.Index); err != nil {
		// The first error is the result; flushing after it could only
		// replace it.
		log.WithFields(logrus.Fields{
			"function": "run",
			"error":    err,
		}).Debug("skipping flush after stream loop failure")
		return err
	}

	t.setState(StateFlush)
	if err := s.loop.Flush(); err != nil {
		return loopError(err)
	}
	return nil
}

// open acquires the input, the decoder and the sink.
func (t *Transcoder) open(s *session, log *logrus.Entry, openSink func(audio.StreamParameters) (sink.Sink, error)) (*container.Stream, error) {
	in, err := container.Open(t.input, t.formats)
	if err != nil {
		return nil, newError(ErrOpenInput, err)
	}
	s.in = in

	if err := in.FindStreamInfo(); err != nil {
		return nil, newError(ErrStreamInfo, err)
	}
	stream, err := in.FindBestAudioStream()
	if err != nil {
		return nil, newError(ErrFindStream, err)
	}

	c, err := t.codecs.Find(stream.Params.ID)
	if err != nil {
		return nil, newError(ErrFindDecoder, err)
	}
	dec, err := c.NewDecoder()
	if err != nil {
		return nil, newError(ErrAllocCodec, err)
	}
	s.dec = dec
	if err := dec.SetParameters(stream.Params); err != nil {
		return nil, newError(ErrCopyCodecParams, err)
	}
	if err := dec.Open(); err != nil {
		return nil, newError(ErrInitDecoder, err)
	}

	log.WithFields(logrus.Fields{
		"function": "open",
		"format":   in.Format().Name(),
		"stream":   stream.Index,
		"codec":    stream.Params.ID.String(),
		"decoder":  c.Name(),
		"params":   dec.Params().String(),
		"duration": stream.Duration,
	}).Info("audio stream selected")

	out, err := openSink(t.cfg.Params())
	if err != nil {
		return nil, newError(ErrOpenOutput, err)
	}
	s.out = out

	s.pkt = &audio.Packet{}
	s.pkt.Unref()
	return stream, nil
}

func (t *Transcoder) initConverter(s *session, log *logrus.Entry) error {
	conv, err := resample.New(s.dec.Params(), t.cfg.Params())
	if err != nil {
		code := ErrInitResampler
		if errors.Is(err, resample.ErrNoChannelLayout) || errors.Is(err, audio.ErrInvalidParameters) {
			code = ErrResamplerInitData
		}
		return newError(code, err)
	}
	s.conv = conv

	s.loop = decode.New(s.dec, conv, s.out.WriteSet)
	s.loop.SetLogger(t.log)

	log.WithFields(logrus.Fields{
		"function": "initConverter",
		"from":     conv.Input().String(),
		"to":       conv.Output().String(),
	}).Debug("converter ready")
	return nil
}

// streamLoop feeds every packet of the selected stream to the decode loop.
func (t *Transcoder) streamLoop(s *session, index int) error {
	for {
		s.pkt.Unref()
		err := s.in.ReadPacket(s.pkt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// A read failure ends the input like the end of file does.
			t.log.WithFields(logrus.Fields{
				"function": "streamLoop",
				"error":    err,
			}).Warn("input ended early")
			return nil
		}

		if s.pkt.StreamIndex != index {
			t.stats.SkippedPackets++
			t.log.WithFields(logrus.Fields{
				"function": "streamLoop",
				"stream":   s.pkt.StreamIndex,
			}).Trace("packet discarded")
			continue
		}
		if len(s.pkt.Data) == 0 {
			continue
		}

		t.stats.Packets++
		if _, err := s.loop.Decode(s.pkt); err != nil {
			return loopError(err)
		}
	}
}

func (t *Transcoder) collect(s *session) {
	if s.loop != nil {
		t.stats.Frames = s.loop.Frames()
		t.stats.Samples = s.loop.Samples()
	}
	if s.out != nil {
		t.stats.Bytes = s.out.Written()
	}
}

// loopError maps a decode loop failure to its code.
func loopError(err error) error {
	switch {
	case errors.Is(err, decode.ErrSendPacket):
		return newError(ErrSendPacket, err)
	case errors.Is(err, decode.ErrReceiveFrame):
		return newError(ErrReceiveFrame, err)
	case errors.Is(err, decode.ErrEmit):
		return newError(ErrWriteOutput, err)
	}
	return newError(ErrConvertSamples, err)
}

func (t *Transcoder) finish(log *logrus.Entry, err error) {
	fields := logrus.Fields{
		"function": "run",
		"code":     int(CodeOf(err)),
		"packets":  t.stats.Packets,
		"skipped":  t.stats.SkippedPackets,
		"frames":   t.stats.Frames,
		"samples":  t.stats.Samples,
		"bytes":    t.stats.Bytes,
	}
	if err != nil {
		fields["error"] = err
		log.WithFields(fields).Error("conversion failed")
		return
	}
	log.WithFields(fields).Info("conversion finished")
}
