package display

import (
	"fmt"
	"strings"

	"github.com/jtollefsen/emberon/pkg/brasa"
)

// Unit is the temperature unit used for presentation. The wire format is
// always Celsius.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// ParseUnit maps user input to a Unit. Accepts full names and single-letter
// abbreviations, case-insensitive.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "celsius", "c":
		return UnitCelsius, nil
	case "fahrenheit", "f":
		return UnitFahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q (want celsius or fahrenheit)", s)
	}
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// FahrenheitToCelsius converts degrees Fahrenheit to degrees Celsius.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// FormatTemperature renders a wire temperature in the requested unit.
func FormatTemperature(t brasa.Temperature, unit Unit) string {
	if unit == UnitFahrenheit {
		return fmt.Sprintf("%.1f°F", CelsiusToFahrenheit(t.Celsius()))
	}
	return fmt.Sprintf("%.1f°C", t.Celsius())
}

// RGBWToRGB blends the dedicated white channel into each color channel the
// way the flame bed mixes its LEDs: additively, with each result clamped to
// the byte range.
func RGBWToRGB(r, g, b, w uint8) (uint8, uint8, uint8) {
	return clampByte(int(r) + int(w)), clampByte(int(g) + int(w)), clampByte(int(b) + int(w))
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ColorHex renders the raw four-channel color as #rrggbbww.
func ColorHex(c brasa.ColorParam) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.W)
}

// ColorRGBHex renders the color as the #rrggbb swatch a screen would show,
// with the white channel blended in.
func ColorRGBHex(c brasa.ColorParam) string {
	r, g, b := RGBWToRGB(c.R, c.G, c.B, c.W)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// FormatTimer renders the shutdown timer state.
func FormatTimer(p brasa.TimerParam) string {
	if !p.Enabled {
		return "off"
	}
	if p.Minutes < 60 {
		return fmt.Sprintf("%d min", p.Minutes)
	}
	h := p.Minutes / 60
	m := p.Minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatSetpoint renders heat mode and target temperature on one line. The
// target only matters in auto mode, so other modes omit it.
func FormatSetpoint(p brasa.SetpointParam, unit Unit) string {
	if p.HeatMode != brasa.HeatAuto {
		return p.HeatMode.String()
	}
	return fmt.Sprintf("%s, target %s", p.HeatMode, FormatTemperature(p.Setpoint, unit))
}

// FormatLight renders the accent light state.
func FormatLight(p brasa.LightParam) string {
	if p.Mode == brasa.LightOff {
		return "off"
	}
	return fmt.Sprintf("%s, brightness %d", p.Mode, p.Brightness)
}
