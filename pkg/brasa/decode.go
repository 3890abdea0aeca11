package brasa

import (
	"encoding/binary"
	"fmt"
)

// ParseHeader validates the header at the start of buf and returns the
// parameter tag and declared payload length. It fails with ErrMalformedFrame
// when buf is shorter than the header, the magic byte is wrong, or the
// declared length exceeds the bytes remaining after the header. buf may
// extend past the frame; callers splitting concatenated frames advance by
// HeaderSize plus the returned length.
func ParseHeader(buf []byte) (Tag, int, error) {
	if len(buf) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: %d bytes (header is %d)", ErrMalformedFrame, len(buf), HeaderSize)
	}
	if buf[0] != FrameMagic {
		return 0, 0, fmt.Errorf("%w: bad magic 0x%02x (want 0x%02x)", ErrMalformedFrame, buf[0], FrameMagic)
	}
	length := int(buf[3])
	if HeaderSize+length > len(buf) {
		return 0, 0, fmt.Errorf("%w: declared payload %d bytes, %d available",
			ErrMalformedFrame, length, len(buf)-HeaderSize)
	}
	return Tag(buf[2]), length, nil
}

// DecodeParameter decodes the parameter frame at the start of buf.
//
// Recognized tags produce their typed variant; a payload shorter than the
// tag's fixed layout fails with ErrMalformedFrame and never yields a
// partially populated value. Unrecognized tags produce an UnknownParam
// carrying the raw tag and a copy of the payload. Decoding never mutates buf
// and the result holds no reference into it.
func DecodeParameter(buf []byte) (Parameter, error) {
	tag, length, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedFrame)
	}
	payload := buf[HeaderSize : HeaderSize+length]
	if Tag(payload[0]) != tag {
		return nil, fmt.Errorf("%w: payload tag 0x%02x does not match header tag 0x%02x",
			ErrMalformedFrame, payload[0], uint8(tag))
	}

	want, known := fixedPayloadLen(tag)
	if !known {
		data := make([]byte, len(payload)-1)
		copy(data, payload[1:])
		return UnknownParam{RawTag: tag, Data: data}, nil
	}
	if len(payload) < want {
		return nil, fmt.Errorf("%w: %s payload %d bytes (need %d)",
			ErrMalformedFrame, tag, len(payload), want)
	}

	// Newer firmware may append fields to a known payload; the offsets below
	// are stable and extras are ignored.
	switch tag {
	case TagMode:
		return ModeParam{Mode: OperatingMode(payload[1])}, nil
	case TagFlameEffect:
		return FlameEffectParam{Effect: FlameEffect(payload[1])}, nil
	case TagSetpoint:
		return SetpointParam{
			HeatMode: HeatMode(payload[1]),
			Setpoint: Temperature(binary.BigEndian.Uint16(payload[2:4])),
		}, nil
	case TagTimer:
		return TimerParam{
			Enabled: payload[1] != 0,
			Minutes: binary.BigEndian.Uint16(payload[2:4]),
		}, nil
	case TagColor:
		return ColorParam{R: payload[1], G: payload[2], B: payload[3], W: payload[4]}, nil
	case TagFirmware:
		return FirmwareParam{Major: payload[1], Minor: payload[2], Patch: payload[3]}, nil
	case TagFault:
		return FaultParam{Code: FaultCode(payload[1])}, nil
	case TagLight:
		return LightParam{Mode: LightMode(payload[1]), Brightness: payload[2]}, nil
	}

	// Unreachable: fixedPayloadLen and the switch above cover the same tags.
	return nil, fmt.Errorf("%w: unhandled tag %s", ErrMalformedFrame, tag)
}
