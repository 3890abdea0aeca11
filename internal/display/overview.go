package display

import (
	"fmt"
	"strings"

	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// FormatOverview renders one decoded overview as a terminal block. Fields
// the unit did not report are omitted. label is the display name for the
// fireplace; when empty or equal to the serial, only the serial prints.
func FormatOverview(o *cloud.Overview, label string, unit Unit) string {
	var b strings.Builder

	title := o.Serial
	if label != "" && label != o.Serial {
		title = fmt.Sprintf("%s (%s)", label, o.Serial)
	}
	b.WriteString(fmt.Sprintf("=== %s ===\n", title))

	if o.Mode != nil {
		b.WriteString(fmt.Sprintf("Mode:      %s\n", o.Mode.Mode))
	}
	if o.Flame != nil {
		b.WriteString(fmt.Sprintf("Flame:     %s\n", o.Flame.Effect))
	}
	if o.Setpoint != nil {
		b.WriteString(fmt.Sprintf("Heat:      %s\n", FormatSetpoint(*o.Setpoint, unit)))
	}
	if o.Timer != nil {
		b.WriteString(fmt.Sprintf("Timer:     %s\n", FormatTimer(*o.Timer)))
	}
	if o.Color != nil {
		b.WriteString(fmt.Sprintf("Color:     %s (blended %s)\n", ColorHex(*o.Color), ColorRGBHex(*o.Color)))
	}
	if o.Light != nil {
		b.WriteString(fmt.Sprintf("Light:     %s\n", FormatLight(*o.Light)))
	}
	if o.Firmware != nil {
		b.WriteString(fmt.Sprintf("Firmware:  %s\n", o.Firmware.Version()))
	}
	if o.Fault != nil {
		if o.Fault.Code == brasa.FaultNone {
			b.WriteString("Fault:     none\n")
		} else {
			b.WriteString(fmt.Sprintf("Fault:     ⚠ %s (code 0x%02x)\n", o.Fault.Code, uint8(o.Fault.Code)))
		}
	}
	for _, u := range o.Unknown {
		b.WriteString(fmt.Sprintf("Unknown:   tag 0x%02x, %d byte(s)\n", uint8(u.RawTag), len(u.Data)))
	}

	if !o.FetchedAt.IsZero() {
		b.WriteString(fmt.Sprintf("\nFetched at %s\n", o.FetchedAt.Local().Format("15:04:05")))
	}

	return b.String()
}
