// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

func TestPacketSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		want    int
		wantErr bool
	}{
		{"silk nb 10ms", []byte{0 << 3}, 480, false},
		{"silk wb 20ms", []byte{9 << 3}, 960, false},
		{"silk mb 60ms", []byte{7 << 3}, 2880, false},
		{"two frames", []byte{9<<3 | 1}, 1920, false},
		{"code 3 three frames", []byte{9<<3 | 3, 3}, 2880, false},
		{"celt 2.5ms", []byte{16 << 3}, 120, false},
		{"hybrid 20ms", []byte{13 << 3}, 960, false},
		{"empty", nil, 0, true},
		{"code 3 without count", []byte{9<<3 | 3}, 0, true},
		{"code 3 zero frames", []byte{9<<3 | 3, 0}, 0, true},
		{"over 120ms", []byte{3<<3 | 3, 3}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := packetSamples(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("packetSamples() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("packetSamples() = %d, want %d", got, tt.want)
			}
		})
	}
}

// rampDecoder writes sample i as i and counts calls.
func rampDecoder(calls *int, fail error) func() decodeFunc {
	return func() decodeFunc {
		return func(in, out []byte) (bool, error) {
			*calls++
			if fail != nil {
				return false, fail
			}
			for i := 0; i+1 < len(out) && i < 1920; i += 2 {
				binary.LittleEndian.PutUint16(out[i:], uint16(i/2))
			}
			return false, nil
		}
	}
}

func openDecoder(t *testing.T, newDecode func() decodeFunc) *Decoder {
	t.Helper()

	d := &Decoder{newDecode: newDecode}
	if err := d.SetParameters(codec.Parameters{
		ID:         codec.IDOpus,
		SampleRate: Rate,
		Channels:   1,
		ExtraData:  [][]byte{[]byte("OpusHead\x01\x01")},
	}); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}
	if err := d.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

func TestDecoder_Silk(t *testing.T) {
	t.Parallel()

	var calls int
	d := openDecoder(t, rampDecoder(&calls, nil))

	want := audio.StreamParameters{Layout: audio.LayoutMono, SampleRate: 48000, Format: audio.FormatS16}
	if d.Params() != want {
		t.Errorf("Params() = %+v, want %+v", d.Params(), want)
	}

	frame := audio.NewFrame()
	if err := d.SendPacket(&audio.Packet{Data: []byte{9 << 3, 0x12, 0x34}}); err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}
	if err := d.ReceiveFrame(frame); err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}
	if frame.NbSamples != 960 || frame.SampleRate != 48000 {
		t.Errorf("frame = %d samples at %d Hz, want 960 at 48000", frame.NbSamples, frame.SampleRate)
	}
	if got := binary.LittleEndian.Uint16(frame.Data[0][2*959:]); got != 959 {
		t.Errorf("last sample = %d, want 959", got)
	}
	if calls != 1 {
		t.Errorf("decode calls = %d, want 1", calls)
	}

	if err := d.SendPacket(nil); err != nil {
		t.Fatalf("SendPacket(nil) error = %v", err)
	}
	if err := d.ReceiveFrame(frame); !errors.Is(err, codec.ErrEOF) {
		t.Errorf("ReceiveFrame() error = %v, want ErrEOF", err)
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		packet []byte
		fail   error
	}{
		{"celt packet", []byte{31 << 3, 0}, nil},
		{"hybrid packet", []byte{12 << 3, 0}, nil},
		{"decoder error", []byte{1 << 3, 0}, errors.New("bad bitstream")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls int
			d := openDecoder(t, rampDecoder(&calls, tt.fail))
			if err := d.SendPacket(&audio.Packet{Data: tt.packet}); err != nil {
				t.Fatalf("SendPacket() error = %v", err)
			}
			if err := d.ReceiveFrame(audio.NewFrame()); !errors.Is(err, codec.ErrInvalidData) {
				t.Errorf("ReceiveFrame() error = %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestDecoder_Parameters(t *testing.T) {
	t.Parallel()

	d := &Decoder{newDecode: newPion}
	if err := d.Open(); !errors.Is(err, codec.ErrInvalidParams) {
		t.Errorf("Open() without parameters error = %v, want ErrInvalidParams", err)
	}
	err := d.SetParameters(codec.Parameters{ID: codec.IDOpus, ExtraData: [][]byte{[]byte("\x01vorbis")}})
	if !errors.Is(err, codec.ErrInvalidParams) {
		t.Errorf("SetParameters(vorbis header) error = %v, want ErrInvalidParams", err)
	}
	if err := d.SendPacket(&audio.Packet{Data: []byte{8}}); !errors.Is(err, codec.ErrNotOpen) {
		t.Errorf("SendPacket() before Open error = %v, want ErrNotOpen", err)
	}
}

func TestCodec(t *testing.T) {
	t.Parallel()

	dec, err := Codec{}.NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	if err := dec.SetParameters(codec.Parameters{ID: codec.IDOpus, SampleRate: Rate, Channels: 1}); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}
	if err := dec.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dec.Close()

	if dec.Params().SampleRate != Rate {
		t.Errorf("SampleRate = %d, want %d", dec.Params().SampleRate, Rate)
	}
}
