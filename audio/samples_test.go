// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func TestSamplesBufferSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		channels     int
		samples      int
		format       SampleFormat
		align        int
		wantSize     int
		wantLineSize int
	}{
		{"packed stereo", 2, 100, FormatS16, 1, 400, 400},
		{"planar stereo", 2, 100, FormatS16P, 1, 400, 200},
		{"default align", 2, 100, FormatS16, 0, 512, 512},
		{"aligned plane", 1, 3, FormatS16, 16, 16, 16},
		{"planar double", 6, 10, FormatF64P, 1, 480, 80},
		{"empty", 1, 0, FormatF32, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			size, lineSize, err := SamplesBufferSize(tt.channels, tt.samples, tt.format, tt.align)
			if err != nil {
				t.Fatalf("SamplesBufferSize() error = %v", err)
			}
			if size != tt.wantSize || lineSize != tt.wantLineSize {
				t.Errorf("SamplesBufferSize() = %d, %d, want %d, %d", size, lineSize, tt.wantSize, tt.wantLineSize)
			}
		})
	}
}

func TestSamplesBufferSize_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := SamplesBufferSize(1, 10, FormatNone, 1); !errors.Is(err, ErrUnknownSampleFormat) {
		t.Errorf("FormatNone error = %v, want ErrUnknownSampleFormat", err)
	}
	if _, _, err := SamplesBufferSize(0, 10, FormatS16, 1); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("0 channels error = %v, want ErrInvalidParameters", err)
	}
	if _, _, err := SamplesBufferSize(1, -1, FormatS16, 1); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("negative samples error = %v, want ErrInvalidParameters", err)
	}
	if _, _, err := SamplesBufferSize(8, 1<<30, FormatF64, 1); !errors.Is(err, ErrBufferTooLarge) {
		t.Errorf("huge buffer error = %v, want ErrBufferTooLarge", err)
	}
}

func TestAllocSamples(t *testing.T) {
	t.Parallel()

	planes, lineSize, err := AllocSamples(2, 4, FormatS16P, 1)
	if err != nil {
		t.Fatalf("AllocSamples() error = %v", err)
	}
	if len(planes) != 2 || lineSize != 8 {
		t.Fatalf("AllocSamples() = %d planes of %d bytes, want 2 of 8", len(planes), lineSize)
	}

	// Appending to one plane must not spill into the next.
	planes[1][0] = 0x7f
	_ = append(planes[0], 0xff)
	if planes[1][0] != 0x7f {
		t.Error("plane 0 shares capacity with plane 1")
	}

	packed, _, err := AllocSamples(2, 4, FormatS16, 1)
	if err != nil {
		t.Fatalf("AllocSamples(packed) error = %v", err)
	}
	if len(packed) != 1 || len(packed[0]) != 16 {
		t.Errorf("packed planes = %d of %d bytes, want 1 of 16", len(packed), len(packed[0]))
	}
}

func TestFrame_Fill(t *testing.T) {
	t.Parallel()

	p := StreamParameters{Layout: LayoutStereo, SampleRate: 8000, Format: FormatS16P}
	planes, _, _ := AllocSamples(2, 10, FormatS16P, 1)

	f := NewFrame()
	if f.PTS != -1 {
		t.Errorf("NewFrame().PTS = %d, want -1", f.PTS)
	}
	if err := f.Fill(p, 10, planes); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if f.NbSamples != 10 || f.LineSize != 20 || f.Channels != 2 {
		t.Errorf("frame = %d samples, line %d, %d channels", f.NbSamples, f.LineSize, f.Channels)
	}
	want := p
	want.Channels = 2
	if f.Params() != want {
		t.Errorf("Params() = %+v, want %+v", f.Params(), want)
	}

	if err := f.Fill(p, 10, planes[:1]); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Fill(one plane) error = %v, want ErrInvalidParameters", err)
	}
	if err := f.Fill(p, 11, planes); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Fill(short) error = %v, want ErrShortBuffer", err)
	}

	f.Unref()
	if f.Data != nil || f.Format != FormatNone {
		t.Error("Unref() left data behind")
	}
}

func TestPacket_Unref(t *testing.T) {
	t.Parallel()

	pkt := Packet{StreamIndex: 2, Data: []byte{1, 2, 3}, PTS: 100, Duration: 5}
	pkt.Unref()
	if pkt.StreamIndex != -1 || len(pkt.Data) != 0 || pkt.PTS != -1 || pkt.Duration != 0 {
		t.Errorf("Unref() = %+v", pkt)
	}
	if cap(pkt.Data) != 3 {
		t.Error("Unref() dropped the buffer")
	}
}

func TestStreamParameters_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		p       StreamParameters
		wantErr bool
	}{
		{"layout", StreamParameters{Layout: LayoutMono, SampleRate: 16000, Format: FormatS16}, false},
		{"channels only", StreamParameters{Channels: 9, SampleRate: 16000, Format: FormatF32}, false},
		{"no rate", StreamParameters{Layout: LayoutMono, Format: FormatS16}, true},
		{"no format", StreamParameters{Layout: LayoutMono, SampleRate: 16000}, true},
		{"no channels", StreamParameters{SampleRate: 16000, Format: FormatS16}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Validate() error = %v, want ErrInvalidParameters", err)
			}
		})
	}
}
