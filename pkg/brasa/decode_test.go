package brasa

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name       string
		buf        []byte
		wantTag    Tag
		wantLength int
		wantErr    bool
	}{
		{
			name:       "valid mode header",
			buf:        []byte{0x42, 0x00, 0x01, 0x02, 0x01, 0x01},
			wantTag:    TagMode,
			wantLength: 2,
		},
		{
			name:       "frame longer than declared length",
			buf:        []byte{0x42, 0x00, 0x01, 0x02, 0x01, 0x01, 0xaa, 0xbb},
			wantTag:    TagMode,
			wantLength: 2,
		},
		{
			name:       "zero length payload",
			buf:        []byte{0x42, 0x00, 0xf0, 0x00},
			wantTag:    Tag(0xf0),
			wantLength: 0,
		},
		{
			name:    "empty buffer",
			buf:     nil,
			wantErr: true,
		},
		{
			name:    "shorter than header",
			buf:     []byte{0x42, 0x00, 0x01},
			wantErr: true,
		},
		{
			name:    "wrong magic byte",
			buf:     []byte{0x41, 0x00, 0x01, 0x02, 0x01, 0x01},
			wantErr: true,
		},
		{
			name:    "declared length exceeds buffer",
			buf:     []byte{0x42, 0x00, 0x01, 0x05, 0x01, 0x01},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, length, err := ParseHeader(tt.buf)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedFrame) {
					t.Fatalf("error = %v, want ErrMalformedFrame", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHeader(% 02x) error: %v", tt.buf, err)
			}
			if tag != tt.wantTag || length != tt.wantLength {
				t.Errorf("ParseHeader = (%s, %d), want (%s, %d)", tag, length, tt.wantTag, tt.wantLength)
			}
		})
	}
}

func TestDecodeParameter(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want Parameter
	}{
		{
			name: "mode on",
			buf:  []byte{0x42, 0x00, 0x01, 0x02, 0x01, 0x01},
			want: ModeParam{Mode: ModeOn},
		},
		{
			name: "mode byte outside known set is carried",
			buf:  []byte{0x42, 0x00, 0x01, 0x02, 0x01, 0x09},
			want: ModeParam{Mode: OperatingMode(0x09)},
		},
		{
			name: "flame effect wave",
			buf:  []byte{0x42, 0x00, 0x02, 0x02, 0x02, 0x03},
			want: FlameEffectParam{Effect: EffectWave},
		},
		{
			name: "setpoint auto 22.5C",
			buf:  []byte{0x42, 0x00, 0x03, 0x04, 0x03, 0x03, 0x00, 0xe1},
			want: SetpointParam{HeatMode: HeatAuto, Setpoint: Temperature(225)},
		},
		{
			name: "timer enabled 60 minutes",
			buf:  []byte{0x42, 0x00, 0x04, 0x04, 0x04, 0x01, 0x00, 0x3c},
			want: TimerParam{Enabled: true, Minutes: 60},
		},
		{
			name: "timer nonzero flag reads as enabled",
			buf:  []byte{0x42, 0x00, 0x04, 0x04, 0x04, 0x02, 0x00, 0x3c},
			want: TimerParam{Enabled: true, Minutes: 60},
		},
		{
			name: "color amber with white",
			buf:  []byte{0x42, 0x00, 0x05, 0x05, 0x05, 0xff, 0x50, 0x00, 0x28},
			want: ColorParam{R: 255, G: 80, B: 0, W: 40},
		},
		{
			name: "firmware 2.4.1",
			buf:  []byte{0x42, 0x00, 0x06, 0x04, 0x06, 0x02, 0x04, 0x01},
			want: FirmwareParam{Major: 2, Minor: 4, Patch: 1},
		},
		{
			name: "fault none",
			buf:  []byte{0x42, 0x00, 0x07, 0x02, 0x07, 0x00},
			want: FaultParam{Code: FaultNone},
		},
		{
			name: "light accent full brightness",
			buf:  []byte{0x42, 0x00, 0x08, 0x03, 0x08, 0x02, 0xff},
			want: LightParam{Mode: LightAccent, Brightness: 255},
		},
		{
			name: "unassigned tag 0xfe decodes as unknown",
			buf:  []byte{0x42, 0x00, 0xfe, 0x03, 0xfe, 0xde, 0xad},
			want: UnknownParam{RawTag: Tag(0xfe), Data: []byte{0xde, 0xad}},
		},
		{
			name: "unknown tag with no payload body",
			buf:  []byte{0x42, 0x00, 0xf0, 0x01, 0xf0},
			want: UnknownParam{RawTag: Tag(0xf0), Data: []byte{}},
		},
		{
			name: "nonzero unit address accepted",
			buf:  []byte{0x42, 0x03, 0x01, 0x02, 0x01, 0x01},
			want: ModeParam{Mode: ModeOn},
		},
		{
			name: "trailing payload bytes on a known tag are ignored",
			buf:  []byte{0x42, 0x00, 0x01, 0x03, 0x01, 0x01, 0x99},
			want: ModeParam{Mode: ModeOn},
		},
		{
			name: "bytes after the frame are ignored",
			buf:  []byte{0x42, 0x00, 0x01, 0x02, 0x01, 0x01, 0x42, 0x00},
			want: ModeParam{Mode: ModeOn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParameter(tt.buf)
			if err != nil {
				t.Fatalf("DecodeParameter(% 02x) error: %v", tt.buf, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeParameter(% 02x) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "empty buffer",
			buf:  nil,
		},
		{
			name: "header only fragment",
			buf:  []byte{0x42, 0x00},
		},
		{
			name: "wrong magic",
			buf:  []byte{0x7e, 0x00, 0x01, 0x02, 0x01, 0x01},
		},
		{
			name: "declared length exceeds buffer",
			buf:  []byte{0x42, 0x00, 0x05, 0x05, 0x05, 0xff},
		},
		{
			name: "empty payload",
			buf:  []byte{0x42, 0x00, 0x01, 0x00},
		},
		{
			name: "payload tag does not match header tag",
			buf:  []byte{0x42, 0x00, 0x01, 0x02, 0x02, 0x01},
		},
		{
			name: "mode payload missing its value byte",
			buf:  []byte{0x42, 0x00, 0x01, 0x01, 0x01},
		},
		{
			name: "setpoint payload truncated",
			buf:  []byte{0x42, 0x00, 0x03, 0x03, 0x03, 0x03, 0x00},
		},
		{
			name: "color payload truncated",
			buf:  []byte{0x42, 0x00, 0x05, 0x04, 0x05, 0xff, 0x50, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParameter(tt.buf)
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("error = %v, want ErrMalformedFrame", err)
			}
			if got != nil {
				t.Errorf("DecodeParameter returned a value alongside the error: %v", got)
			}
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	buf := []byte{0x42, 0x00, 0x03, 0x04, 0x03, 0x03, 0x00, 0xe1}

	first, err := DecodeParameter(buf)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := DecodeParameter(buf)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("decodes differ: %v vs %v", first, second)
	}
}

func TestDecodeCopiesUnknownPayload(t *testing.T) {
	buf := []byte{0x42, 0x00, 0xfe, 0x03, 0xfe, 0xde, 0xad}

	got, err := DecodeParameter(buf)
	if err != nil {
		t.Fatal(err)
	}
	unknown, ok := got.(UnknownParam)
	if !ok {
		t.Fatalf("decoded %T, want UnknownParam", got)
	}

	// Corrupting the source buffer must not reach into the decoded value.
	buf[5] = 0x00
	buf[6] = 0x00
	if unknown.Data[0] != 0xde || unknown.Data[1] != 0xad {
		t.Errorf("payload aliases the input buffer: % 02x", unknown.Data)
	}
}

func BenchmarkDecodeParameter(b *testing.B) {
	buf := []byte{0x42, 0x00, 0x03, 0x04, 0x03, 0x03, 0x00, 0xe1}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeParameter(buf); err != nil {
			b.Fatal(err)
		}
	}
}
