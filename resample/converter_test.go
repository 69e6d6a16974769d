// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/internal/audiotest"
)

var (
	mono16k   = audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 16000, Format: audio.FormatS16}
	stereo44k = audio.StreamParameters{Layout: audio.LayoutStereo, SampleRate: 44100, Format: audio.FormatS16}
)

// convertAll runs src through conv in frames of frameSize samples and
// returns every emitted byte plus the per-call sample sets.
func convertAll(t *testing.T, conv *Converter, src *audiotest.Source, frameSize int) ([]byte, []*SampleSet) {
	t.Helper()

	var out bytes.Buffer
	var sets []*SampleSet
	frame := audio.NewFrame()
	for {
		err := src.ReadFrame(frame, frameSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		set, err := conv.Convert(frame)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if _, err := set.WriteTo(&out); err != nil {
			t.Fatalf("WriteTo() error = %v", err)
		}
		sets = append(sets, set)
		frame.Unref()
	}

	set, err := conv.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if _, err := set.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	return out.Bytes(), append(sets, set)
}

func TestConverter_PassThroughIsBitExact(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(mono16k, 4000, 440)
	want := bytes.Join(audiotest.Encode(mono16k, 4000, audiotest.Sine(16000, 440, 0.5)), nil)

	conv, err := New(mono16k, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, _ := convertAll(t, conv, src, 160)

	if !bytes.Equal(got, want) {
		t.Fatalf("pass-through output differs from input (%d vs %d bytes)", len(got), len(want))
	}
}

func TestConverter_PackedStereoPassThrough(t *testing.T) {
	t.Parallel()

	p := audio.StreamParameters{Layout: audio.LayoutStereo, SampleRate: 8000, Format: audio.FormatS16}
	wave := func(i, ch int) float64 {
		if ch == 0 {
			return 0.25
		}
		return -0.25
	}
	src := audiotest.NewSource(p, 300, wave)
	want := audiotest.Encode(p, 300, wave)[0]

	conv, err := New(p, p)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, sets := convertAll(t, conv, src, 128)

	if !bytes.Equal(got, want) {
		t.Fatal("packed stereo output is not re-interleaved to the input bytes")
	}
	for _, set := range sets {
		if len(set.Channels) != 2 {
			t.Fatalf("len(Channels) = %d, want 2", len(set.Channels))
		}
	}
}

func TestConverter_DownsampleCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        audio.StreamParameters
		out       audio.StreamParameters
		total     int
		frameSize int
	}{
		{"44.1k stereo to 16k mono", stereo44k, mono16k, 44100, 1024},
		{"48k mono to 8k mono", audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 48000, Format: audio.FormatF32P},
			audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 8000, Format: audio.FormatS16}, 48000, 960},
		{"8k to 44.1k stereo", audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 8000, Format: audio.FormatS16},
			stereo44k, 8000, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := New(tt.in, tt.out)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			_, sets := convertAll(t, conv, audiotest.NewSineSource(tt.in, tt.total, 440), tt.frameSize)

			got := 0
			for _, set := range sets {
				got += set.Samples
			}
			want := int(math.Ceil(float64(tt.total) * float64(tt.out.SampleRate) / float64(tt.in.SampleRate)))
			if got < want-1 || got > want+1 {
				t.Errorf("total samples = %d, want %d±1", got, want)
			}
		})
	}
}

func TestConverter_CapacityNeverShrinks(t *testing.T) {
	t.Parallel()

	conv, err := New(stereo44k, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src := audiotest.NewSineSource(stereo44k, 10000, 1000)

	prev := 0
	frame := audio.NewFrame()
	for _, n := range []int{1024, 100, 4096, 10, 2048, 1} {
		if err := src.ReadFrame(frame, n); err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		set, err := conv.Convert(frame)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		frame.Unref()

		if conv.MaxCapacity() < prev {
			t.Errorf("MaxCapacity() shrank from %d to %d", prev, conv.MaxCapacity())
		}
		if set.Samples > conv.MaxCapacity() {
			t.Errorf("emitted %d samples with capacity %d", set.Samples, conv.MaxCapacity())
		}
		if set.LineSize != set.Samples*2 || conv.LineSize() != set.LineSize {
			t.Errorf("LineSize = %d (converter %d), want %d", set.LineSize, conv.LineSize(), set.Samples*2)
		}
		prev = conv.MaxCapacity()
	}
}

func TestConverter_ProvisionalCountUsesInputRate(t *testing.T) {
	t.Parallel()

	out := audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 32000, Format: audio.FormatS16}
	conv, err := New(mono16k, out)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// The frame claims the output rate. Only the buffered delay follows the
	// frame's own rate, the up front reservation follows the configured one.
	stamped := mono16k
	stamped.SampleRate = 32000
	planes, _, err := audio.AllocSamples(1, 100, audio.FormatS16, 1)
	if err != nil {
		t.Fatalf("AllocSamples() error = %v", err)
	}
	frame := audio.NewFrame()
	if err := frame.Fill(stamped, 100, planes); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	if _, err := conv.Convert(frame); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := conv.MaxCapacity(); got != 200 {
		t.Errorf("MaxCapacity() = %d, want 200", got)
	}
}

func TestConverter_OneBufferPerTargetChannel(t *testing.T) {
	t.Parallel()

	for _, out := range []audio.StreamParameters{
		mono16k,
		{Layout: audio.LayoutStereo, SampleRate: 16000, Format: audio.FormatS16P},
		{Layout: audio.Layout5Point1, SampleRate: 22050, Format: audio.FormatF32},
	} {
		conv, err := New(stereo44k, out)
		if err != nil {
			t.Fatalf("New(%v) error = %v", out, err)
		}
		_, sets := convertAll(t, conv, audiotest.NewSineSource(stereo44k, 5000, 300), 1000)
		for _, set := range sets {
			if len(set.Channels) != out.Layout.Channels() {
				t.Errorf("%v: len(Channels) = %d, want %d", out, len(set.Channels), out.Layout.Channels())
			}
			for _, ch := range set.Channels {
				if len(ch) != set.LineSize {
					t.Errorf("%v: channel buffer %d bytes, want %d", out, len(ch), set.LineSize)
				}
			}
		}
	}
}

func TestConverter_Deterministic(t *testing.T) {
	t.Parallel()

	run := func() []byte {
		conv, err := New(stereo44k, mono16k)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		out, _ := convertAll(t, conv, audiotest.NewSineSource(stereo44k, 20000, 523.25), 1152)
		return out
	}

	if !bytes.Equal(run(), run()) {
		t.Fatal("two runs over the same input produced different output")
	}
}

func TestConverter_PreservesAmplitude(t *testing.T) {
	t.Parallel()

	in := audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 48000, Format: audio.FormatS16}
	conv, err := New(in, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, _ := convertAll(t, conv, audiotest.NewSineSource(in, 48000, 440), 1024)

	var peak float64
	for _, s := range audiotest.S16(out)[1000:] {
		peak = max(peak, math.Abs(float64(s)/32768))
	}
	if peak < 0.45 || peak > 0.52 {
		t.Errorf("peak = %.3f, want about 0.5", peak)
	}
}

func TestNew_InfersLayout(t *testing.T) {
	t.Parallel()

	in := audio.StreamParameters{Channels: 2, SampleRate: 44100, Format: audio.FormatS16}
	conv, err := New(in, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := conv.Input().Layout; got != audio.LayoutStereo {
		t.Errorf("Input().Layout = %v, want stereo", got)
	}

	in.Channels = 9
	if _, err := New(in, mono16k); !errors.Is(err, ErrNoChannelLayout) {
		t.Errorf("New(9 channels) error = %v, want ErrNoChannelLayout", err)
	}

	bad := mono16k
	bad.SampleRate = 0
	if _, err := New(stereo44k, bad); !errors.Is(err, ErrInit) {
		t.Errorf("New(rate 0) error = %v, want ErrInit", err)
	}
}

func TestConverter_RejectsMismatchedFrame(t *testing.T) {
	t.Parallel()

	conv, err := New(stereo44k, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	other := stereo44k
	other.Format = audio.FormatF32
	frame := audio.NewFrame()
	if err := audiotest.NewSilentSource(other, 100).ReadFrame(frame, 100); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if _, err := conv.Convert(frame); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("Convert() error = %v, want ErrFrameMismatch", err)
	}
	if _, err := conv.Convert(nil); !errors.Is(err, ErrConvert) {
		t.Errorf("Convert(nil) error = %v, want ErrConvert", err)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	conv, err := New(mono16k, mono16k)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := conv.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush() after Close error = %v, want ErrClosed", err)
	}
}

func BenchmarkConverter_Stereo44kToMono16k(b *testing.B) {
	frame := audio.NewFrame()
	if err := audiotest.NewSineSource(stereo44k, 1024, 440).ReadFrame(frame, 1024); err != nil {
		b.Fatal(err)
	}
	conv, err := New(stereo44k, mono16k)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := conv.Convert(frame); err != nil {
			b.Fatal(err)
		}
	}
}
