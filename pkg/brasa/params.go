package brasa

import (
	"fmt"
	"math"
)

// Frame layout constants
const (
	FrameMagic = 0x42 // first byte of every Brasa frame
	HeaderSize = 4    // magic + unit address + tag + payload length

	// Bus unit address byte. Appliances on a shared bus carry their slot
	// address here; the cloud path always addresses a single unit and
	// transmits zero.
	unitCloud = 0x00
)

// Tag identifies a parameter's wire type. The tag space is open: firmware
// newer than this package may transmit tags not listed here.
type Tag uint8

// Known parameter tags
const (
	TagMode        Tag = 0x01 // operating mode
	TagFlameEffect Tag = 0x02 // flame render pattern
	TagSetpoint    Tag = 0x03 // heat mode + target temperature
	TagTimer       Tag = 0x04 // shutdown timer
	TagColor       Tag = 0x05 // flame color RGBW
	TagFirmware    Tag = 0x06 // firmware version
	TagFault       Tag = 0x07 // fault telemetry
	TagLight       Tag = 0x08 // accent light
)

// Fixed payload lengths per known tag, including the leading tag byte.
const (
	modePayloadLen     = 2
	flamePayloadLen    = 2
	setpointPayloadLen = 4
	timerPayloadLen    = 4
	colorPayloadLen    = 5
	firmwarePayloadLen = 4
	faultPayloadLen    = 2
	lightPayloadLen    = 3
)

func (t Tag) String() string {
	switch t {
	case TagMode:
		return "mode"
	case TagFlameEffect:
		return "flame-effect"
	case TagSetpoint:
		return "setpoint"
	case TagTimer:
		return "timer"
	case TagColor:
		return "color"
	case TagFirmware:
		return "firmware"
	case TagFault:
		return "fault"
	case TagLight:
		return "light"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// OperatingMode is the appliance's top-level power state.
type OperatingMode uint8

const (
	ModeStandby OperatingMode = 0x00 // flame and heater off, unit reachable
	ModeOn      OperatingMode = 0x01 // flame on, heat per the setpoint parameter
	ModeEco     OperatingMode = 0x02 // reduced flame brightness and heat duty cycle
)

func (m OperatingMode) String() string {
	switch m {
	case ModeStandby:
		return "standby"
	case ModeOn:
		return "on"
	case ModeEco:
		return "eco"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(m))
	}
}

func (m OperatingMode) valid() bool { return m <= ModeEco }

// HeatMode selects how the blower heater runs.
type HeatMode uint8

const (
	HeatOff  HeatMode = 0x00 // flame only
	HeatLow  HeatMode = 0x01 // low fan, continuous
	HeatHigh HeatMode = 0x02 // high fan, continuous
	HeatAuto HeatMode = 0x03 // thermostat against the setpoint
)

func (m HeatMode) String() string {
	switch m {
	case HeatOff:
		return "off"
	case HeatLow:
		return "low"
	case HeatHigh:
		return "high"
	case HeatAuto:
		return "auto"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(m))
	}
}

func (m HeatMode) valid() bool { return m <= HeatAuto }

// FlameEffect is the render pattern of the LED flame bed.
type FlameEffect uint8

const (
	EffectSteady  FlameEffect = 0x00
	EffectNatural FlameEffect = 0x01
	EffectEmber   FlameEffect = 0x02
	EffectWave    FlameEffect = 0x03
)

func (e FlameEffect) String() string {
	switch e {
	case EffectSteady:
		return "steady"
	case EffectNatural:
		return "natural"
	case EffectEmber:
		return "ember"
	case EffectWave:
		return "wave"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(e))
	}
}

func (e FlameEffect) valid() bool { return e <= EffectWave }

// LightMode selects the accent light strip behavior.
type LightMode uint8

const (
	LightOff     LightMode = 0x00
	LightAmbient LightMode = 0x01 // follows the flame color
	LightAccent  LightMode = 0x02 // independent warm white
)

func (m LightMode) String() string {
	switch m {
	case LightOff:
		return "off"
	case LightAmbient:
		return "ambient"
	case LightAccent:
		return "accent"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(m))
	}
}

func (m LightMode) valid() bool { return m <= LightAccent }

// FaultCode is appliance fault telemetry. The set is open: firmware reports
// codes this package does not know yet, and they must survive decoding and
// re-encoding, so faults are never validated against a closed set.
type FaultCode uint8

const (
	FaultNone      FaultCode = 0x00
	FaultOverheat  FaultCode = 0x01 // thermal cutout tripped
	FaultSensor    FaultCode = 0x02 // room temperature sensor out of range
	FaultBlower    FaultCode = 0x03 // heater blower stall
	FaultLEDDriver FaultCode = 0x04 // flame bed driver failure
	FaultComms     FaultCode = 0x05 // control board lost the radio module
)

func (c FaultCode) String() string {
	switch c {
	case FaultNone:
		return "none"
	case FaultOverheat:
		return "overheat"
	case FaultSensor:
		return "sensor"
	case FaultBlower:
		return "blower"
	case FaultLEDDriver:
		return "led-driver"
	case FaultComms:
		return "comms"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(c))
	}
}

// Temperature is a wire temperature in tenths of a degree Celsius. The
// appliance always transmits Celsius; Fahrenheit exists only in presentation
// code.
type Temperature uint16

// Setpoint range supported by the EF series. The vendor app exposes the same
// span as 50-90 °F.
const (
	MinSetpoint = Temperature(100) // 10.0 °C
	MaxSetpoint = Temperature(320) // 32.0 °C
)

// Celsius returns the temperature in degrees Celsius.
func (t Temperature) Celsius() float64 { return float64(t) / 10 }

func (t Temperature) String() string { return fmt.Sprintf("%.1f°C", t.Celsius()) }

// TemperatureFromCelsius converts degrees Celsius to the wire representation,
// rounding to the nearest tenth. Values below zero map to zero so conversion
// can never wrap; range enforcement happens at encode time.
func TemperatureFromCelsius(c float64) Temperature {
	if c <= 0 {
		return 0
	}
	tenths := math.Round(c * 10)
	if tenths > math.MaxUint16 {
		return Temperature(math.MaxUint16)
	}
	return Temperature(tenths)
}

// Parameter is one decoded device attribute. Implementations are immutable
// value types; replace a value rather than mutating it.
type Parameter interface {
	// Tag reports the parameter's wire tag.
	Tag() Tag
	String() string
}

// ModeParam is the appliance operating mode.
type ModeParam struct {
	Mode OperatingMode // [1]
}

func (ModeParam) Tag() Tag { return TagMode }

func (p ModeParam) String() string { return fmt.Sprintf("Mode{%s}", p.Mode) }

// FlameEffectParam is the LED flame bed render pattern.
type FlameEffectParam struct {
	Effect FlameEffect // [1]
}

func (FlameEffectParam) Tag() Tag { return TagFlameEffect }

func (p FlameEffectParam) String() string { return fmt.Sprintf("FlameEffect{%s}", p.Effect) }

// SetpointParam is the heater configuration: how the blower runs and the
// target room temperature used in auto mode.
type SetpointParam struct {
	HeatMode HeatMode    // [1]
	Setpoint Temperature // [2:4] big-endian, tenths of a degree Celsius
}

func (SetpointParam) Tag() Tag { return TagSetpoint }

func (p SetpointParam) String() string {
	return fmt.Sprintf("Setpoint{%s, %s}", p.HeatMode, p.Setpoint)
}

// TimerParam is the shutdown timer. Minutes counts down on the appliance;
// reaching zero drops the unit to standby.
type TimerParam struct {
	Enabled bool   // [1] 0/1 on the wire
	Minutes uint16 // [2:4] big-endian
}

func (TimerParam) Tag() Tag { return TagTimer }

func (p TimerParam) String() string {
	if !p.Enabled {
		return "Timer{off}"
	}
	return fmt.Sprintf("Timer{on, %dm}", p.Minutes)
}

// ColorParam is the flame bed color. The white channel drives dedicated
// warm-white LEDs layered over the RGB bed.
type ColorParam struct {
	R uint8 // [1]
	G uint8 // [2]
	B uint8 // [3]
	W uint8 // [4]
}

func (ColorParam) Tag() Tag { return TagColor }

func (p ColorParam) String() string {
	return fmt.Sprintf("Color{R:%d G:%d B:%d W:%d}", p.R, p.G, p.B, p.W)
}

// FirmwareParam is the control board firmware version.
type FirmwareParam struct {
	Major uint8 // [1]
	Minor uint8 // [2]
	Patch uint8 // [3]
}

func (FirmwareParam) Tag() Tag { return TagFirmware }

func (p FirmwareParam) String() string {
	return fmt.Sprintf("Firmware{%d.%d.%d}", p.Major, p.Minor, p.Patch)
}

// Version returns the dotted version string.
func (p FirmwareParam) Version() string {
	return fmt.Sprintf("%d.%d.%d", p.Major, p.Minor, p.Patch)
}

// FaultParam is the appliance fault report. FaultNone means healthy.
type FaultParam struct {
	Code FaultCode // [1]
}

func (FaultParam) Tag() Tag { return TagFault }

func (p FaultParam) String() string { return fmt.Sprintf("Fault{%s}", p.Code) }

// LightParam is the accent light strip configuration.
type LightParam struct {
	Mode       LightMode // [1]
	Brightness uint8     // [2]
}

func (LightParam) Tag() Tag { return TagLight }

func (p LightParam) String() string {
	return fmt.Sprintf("Light{%s, brightness=%d}", p.Mode, p.Brightness)
}

// UnknownParam carries a parameter whose tag this package does not recognize.
// Data holds the payload bytes after the tag, copied out of the source
// buffer. Encoding an UnknownParam reproduces the original frame, so foreign
// parameters pass through a read-modify-write cycle intact.
type UnknownParam struct {
	RawTag Tag
	Data   []byte
}

func (p UnknownParam) Tag() Tag { return p.RawTag }

func (p UnknownParam) String() string {
	return fmt.Sprintf("Unknown{tag=0x%02x, %d bytes}", uint8(p.RawTag), len(p.Data))
}
