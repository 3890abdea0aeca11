package brasa

import (
	"encoding/binary"
	"fmt"
)

// MakeHeader builds the 4-byte header prefixed to every parameter frame.
//
// Header layout:
//   - Byte 0: frame magic (0x42)
//   - Byte 1: bus unit address (0x00 via the cloud path)
//   - Byte 2: parameter tag
//   - Byte 3: payload length
func MakeHeader(tag Tag, payloadLen uint8) []byte {
	return []byte{FrameMagic, unitCloud, byte(tag), payloadLen}
}

// EncodeParameter encodes p into a complete frame: header plus payload.
//
// Values are validated before any bytes are produced. Setpoints must fall in
// [MinSetpoint, MaxSetpoint] and command enums (operating mode, heat mode,
// flame effect, light mode) must hold a value from their known set, otherwise
// ErrEncoding is returned. Fault codes are telemetry and encode unvalidated.
// An UnknownParam reproduces its original frame so foreign parameters can be
// written back untouched.
func EncodeParameter(p Parameter) ([]byte, error) {
	payload, err := encodePayload(p)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0xff {
		return nil, fmt.Errorf("%w: payload %d bytes exceeds the frame limit (255)", ErrEncoding, len(payload))
	}
	frame := MakeHeader(p.Tag(), uint8(len(payload)))
	return append(frame, payload...), nil
}

func encodePayload(p Parameter) ([]byte, error) {
	switch p := p.(type) {
	case ModeParam:
		if !p.Mode.valid() {
			return nil, fmt.Errorf("%w: operating mode 0x%02x not in the known set", ErrEncoding, uint8(p.Mode))
		}
		return []byte{byte(TagMode), byte(p.Mode)}, nil

	case FlameEffectParam:
		if !p.Effect.valid() {
			return nil, fmt.Errorf("%w: flame effect 0x%02x not in the known set", ErrEncoding, uint8(p.Effect))
		}
		return []byte{byte(TagFlameEffect), byte(p.Effect)}, nil

	case SetpointParam:
		if !p.HeatMode.valid() {
			return nil, fmt.Errorf("%w: heat mode 0x%02x not in the known set", ErrEncoding, uint8(p.HeatMode))
		}
		if p.Setpoint < MinSetpoint || p.Setpoint > MaxSetpoint {
			return nil, fmt.Errorf("%w: setpoint %s outside supported range %s to %s",
				ErrEncoding, p.Setpoint, MinSetpoint, MaxSetpoint)
		}
		payload := make([]byte, setpointPayloadLen)
		payload[0] = byte(TagSetpoint)
		payload[1] = byte(p.HeatMode)
		binary.BigEndian.PutUint16(payload[2:4], uint16(p.Setpoint))
		return payload, nil

	case TimerParam:
		payload := make([]byte, timerPayloadLen)
		payload[0] = byte(TagTimer)
		if p.Enabled {
			payload[1] = 0x01
		}
		binary.BigEndian.PutUint16(payload[2:4], p.Minutes)
		return payload, nil

	case ColorParam:
		return []byte{byte(TagColor), p.R, p.G, p.B, p.W}, nil

	case FirmwareParam:
		return []byte{byte(TagFirmware), p.Major, p.Minor, p.Patch}, nil

	case FaultParam:
		return []byte{byte(TagFault), byte(p.Code)}, nil

	case LightParam:
		if !p.Mode.valid() {
			return nil, fmt.Errorf("%w: light mode 0x%02x not in the known set", ErrEncoding, uint8(p.Mode))
		}
		return []byte{byte(TagLight), byte(p.Mode), p.Brightness}, nil

	case UnknownParam:
		// A known tag must travel as its typed variant; accepting it here
		// would let one value decode to a different one.
		if _, known := fixedPayloadLen(p.RawTag); known {
			return nil, fmt.Errorf("%w: tag %s is known, use its typed parameter", ErrEncoding, p.RawTag)
		}
		payload := make([]byte, 1+len(p.Data))
		payload[0] = byte(p.RawTag)
		copy(payload[1:], p.Data)
		return payload, nil

	default:
		return nil, fmt.Errorf("%w: unsupported parameter type %T", ErrEncoding, p)
	}
}

// fixedPayloadLen reports the payload length a known tag requires, including
// the leading tag byte. The second result is false for tags outside the
// known set.
func fixedPayloadLen(t Tag) (int, bool) {
	switch t {
	case TagMode:
		return modePayloadLen, true
	case TagFlameEffect:
		return flamePayloadLen, true
	case TagSetpoint:
		return setpointPayloadLen, true
	case TagTimer:
		return timerPayloadLen, true
	case TagColor:
		return colorPayloadLen, true
	case TagFirmware:
		return firmwarePayloadLen, true
	case TagFault:
		return faultPayloadLen, true
	case TagLight:
		return lightPayloadLen, true
	}
	return 0, false
}
