package cloud

import (
	"fmt"
	"time"

	"github.com/jtollefsen/emberon/pkg/brasa"
)

// Overview is the decoded state of one fireplace at a point in time.
//
// Each field corresponds to one parameter type; a nil field means the
// unit did not report that parameter. Frames the client cannot decode
// by tag are collected in Unknown rather than dropped, so callers can
// still inspect state reported by newer firmware.
type Overview struct {
	Serial    string
	FetchedAt time.Time

	Mode     *brasa.ModeParam
	Flame    *brasa.FlameEffectParam
	Setpoint *brasa.SetpointParam
	Timer    *brasa.TimerParam
	Color    *brasa.ColorParam
	Firmware *brasa.FirmwareParam
	Fault    *brasa.FaultParam
	Light    *brasa.LightParam

	Unknown []brasa.UnknownParam
}

// ParseOverview decodes an overview response body: parameter frames
// concatenated back to back with no separator. If the unit repeats a
// parameter, the last occurrence wins.
//
// An empty body yields an empty Overview. A truncated or corrupt frame
// fails the whole parse, since frame boundaries cannot be recovered
// past the damage.
func ParseOverview(serial string, data []byte) (*Overview, error) {
	overview := &Overview{Serial: serial}

	for offset := 0; offset < len(data); {
		_, payloadLen, err := brasa.ParseHeader(data[offset:])
		if err != nil {
			return nil, NewFrameError(fmt.Sprintf("bad frame at offset %d", offset), err)
		}

		frameEnd := offset + brasa.HeaderSize + payloadLen
		param, err := brasa.DecodeParameter(data[offset:frameEnd])
		if err != nil {
			return nil, NewFrameError(fmt.Sprintf("bad frame at offset %d", offset), err)
		}

		overview.add(param)
		offset = frameEnd
	}

	return overview, nil
}

func (o *Overview) add(param brasa.Parameter) {
	switch p := param.(type) {
	case brasa.ModeParam:
		o.Mode = &p
	case brasa.FlameEffectParam:
		o.Flame = &p
	case brasa.SetpointParam:
		o.Setpoint = &p
	case brasa.TimerParam:
		o.Timer = &p
	case brasa.ColorParam:
		o.Color = &p
	case brasa.FirmwareParam:
		o.Firmware = &p
	case brasa.FaultParam:
		o.Fault = &p
	case brasa.LightParam:
		o.Light = &p
	case brasa.UnknownParam:
		o.Unknown = append(o.Unknown, p)
	}
}

// Faulted reports whether the unit carries an active fault code.
func (o *Overview) Faulted() bool {
	return o.Fault != nil && o.Fault.Code != brasa.FaultNone
}
