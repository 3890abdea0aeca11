package display

import (
	"strings"
	"testing"

	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

func TestFormatLight(t *testing.T) {
	off := brasa.LightParam{Mode: brasa.LightOff, Brightness: 200}
	if got := FormatLight(off); got != "off" {
		t.Errorf("off format = %q", got)
	}
	ambient := brasa.LightParam{Mode: brasa.LightAmbient, Brightness: 128}
	if got := FormatLight(ambient); got != "ambient, brightness 128" {
		t.Errorf("ambient format = %q", got)
	}
}

func TestFormatOverview(t *testing.T) {
	o := &cloud.Overview{
		Serial:   "EF36-0042",
		Mode:     &brasa.ModeParam{Mode: brasa.ModeOn},
		Flame:    &brasa.FlameEffectParam{Effect: brasa.EffectNatural},
		Setpoint: &brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: brasa.Temperature(220)},
		Timer:    &brasa.TimerParam{Enabled: true, Minutes: 45},
		Color:    &brasa.ColorParam{R: 255, G: 80, B: 0, W: 40},
		Light:    &brasa.LightParam{Mode: brasa.LightAmbient, Brightness: 128},
		Firmware: &brasa.FirmwareParam{Major: 2, Minor: 4, Patch: 1},
		Fault:    &brasa.FaultParam{Code: brasa.FaultNone},
	}

	out := FormatOverview(o, "Living Room", UnitCelsius)

	for _, want := range []string{
		"=== Living Room (EF36-0042) ===",
		"Mode:      on",
		"Flame:     natural",
		"Heat:      auto, target 22.0°C",
		"Timer:     45 min",
		"Color:     #ff500028 (blended #ff7828)",
		"Light:     ambient, brightness 128",
		"Firmware:  2.4.1",
		"Fault:     none",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatOverviewSparse(t *testing.T) {
	o := &cloud.Overview{
		Serial: "EF50-0117",
		Mode:   &brasa.ModeParam{Mode: brasa.ModeStandby},
	}

	out := FormatOverview(o, "", UnitCelsius)

	if !strings.Contains(out, "=== EF50-0117 ===") {
		t.Errorf("missing serial-only title:\n%s", out)
	}
	if !strings.Contains(out, "Mode:      standby") {
		t.Errorf("missing mode line:\n%s", out)
	}
	for _, absent := range []string{"Flame:", "Heat:", "Timer:", "Color:", "Light:", "Firmware:", "Fault:", "Fetched at"} {
		if strings.Contains(out, absent) {
			t.Errorf("unreported field %q should be omitted:\n%s", absent, out)
		}
	}
}

func TestFormatOverviewFaultAndUnknown(t *testing.T) {
	o := &cloud.Overview{
		Serial: "EF36-0042",
		Fault:  &brasa.FaultParam{Code: brasa.FaultOverheat},
		Unknown: []brasa.UnknownParam{
			{RawTag: 0xFE, Data: []byte{0xDE, 0xAD}},
		},
	}

	out := FormatOverview(o, "EF36-0042", UnitCelsius)

	if !strings.Contains(out, "Fault:     ⚠ overheat (code 0x01)") {
		t.Errorf("missing fault line:\n%s", out)
	}
	if !strings.Contains(out, "Unknown:   tag 0xfe, 2 byte(s)") {
		t.Errorf("missing unknown parameter line:\n%s", out)
	}
}
