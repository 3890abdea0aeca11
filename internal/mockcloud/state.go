package mockcloud

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// errUnknownSerial marks requests for a fireplace the fleet does not hold.
var errUnknownSerial = errors.New("unknown serial")

// unit is the simulated state of one fireplace: the listing info plus the
// full parameter set a real unit would report.
type unit struct {
	info cloud.Fire

	mode     brasa.ModeParam
	flame    brasa.FlameEffectParam
	setpoint brasa.SetpointParam
	timer    brasa.TimerParam
	color    brasa.ColorParam
	light    brasa.LightParam
	firmware brasa.FirmwareParam
	fault    brasa.FaultParam

	// extras holds written parameters with tags outside the known set,
	// so they show up again in the overview like real firmware state.
	extras map[brasa.Tag]brasa.UnknownParam
}

func newUnit(info cloud.Fire) *unit {
	u := &unit{
		info:     info,
		mode:     brasa.ModeParam{Mode: brasa.ModeStandby},
		flame:    brasa.FlameEffectParam{Effect: brasa.EffectNatural},
		setpoint: brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: brasa.Temperature(220)},
		timer:    brasa.TimerParam{},
		color:    brasa.ColorParam{R: 255, G: 80, B: 0, W: 40},
		light:    brasa.LightParam{Mode: brasa.LightOff},
		fault:    brasa.FaultParam{Code: brasa.FaultNone},
		extras:   make(map[brasa.Tag]brasa.UnknownParam),
	}

	var major, minor, patch uint8
	if _, err := fmt.Sscanf(info.Firmware, "%d.%d.%d", &major, &minor, &patch); err == nil {
		u.firmware = brasa.FirmwareParam{Major: major, Minor: minor, Patch: patch}
	}

	return u
}

// apply folds one written parameter into the unit state
func (u *unit) apply(param brasa.Parameter) {
	switch p := param.(type) {
	case brasa.ModeParam:
		u.mode = p
	case brasa.FlameEffectParam:
		u.flame = p
	case brasa.SetpointParam:
		u.setpoint = p
	case brasa.TimerParam:
		u.timer = p
	case brasa.ColorParam:
		u.color = p
	case brasa.LightParam:
		u.light = p
	case brasa.FirmwareParam:
		u.firmware = p
		u.info.Firmware = p.Version()
	case brasa.FaultParam:
		u.fault = p
	case brasa.UnknownParam:
		u.extras[p.RawTag] = p
	}
}

// frames encodes the unit's full parameter set as one concatenated
// overview body
func (u *unit) frames() ([]byte, error) {
	params := []brasa.Parameter{
		u.mode,
		u.flame,
		u.setpoint,
		u.timer,
		u.color,
		u.firmware,
		u.fault,
		u.light,
	}

	tags := make([]brasa.Tag, 0, len(u.extras))
	for tag := range u.extras {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, tag := range tags {
		params = append(params, u.extras[tag])
	}

	var buf bytes.Buffer
	for _, p := range params {
		frame, err := brasa.EncodeParameter(p)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", p.Tag(), err)
		}
		buf.Write(frame)
	}

	return buf.Bytes(), nil
}

// fleet is the mutex-protected set of simulated fireplaces
type fleet struct {
	mu    sync.Mutex
	units map[string]*unit
	order []string // listing order, stable across requests
}

// newFleet returns a fleet seeded with two development units
func newFleet() *fleet {
	f := &fleet{units: make(map[string]*unit)}

	livingRoom := newUnit(cloud.Fire{
		Serial:   "EF36-0042",
		Nickname: "Living Room",
		Model:    "EF36-PRO",
		Online:   true,
		Firmware: "2.4.1",
	})
	livingRoom.mode = brasa.ModeParam{Mode: brasa.ModeOn}
	livingRoom.light = brasa.LightParam{Mode: brasa.LightAmbient, Brightness: 180}
	f.add(livingRoom)

	f.add(newUnit(cloud.Fire{
		Serial:   "EF50-0117",
		Nickname: "Den",
		Model:    "EF50",
		Online:   false,
		Firmware: "2.3.0",
	}))

	return f
}

func (f *fleet) add(u *unit) {
	if _, exists := f.units[u.info.Serial]; !exists {
		f.order = append(f.order, u.info.Serial)
	}
	f.units[u.info.Serial] = u
}

// size returns the number of simulated fireplaces
func (f *fleet) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.units)
}

// list returns the fireplaces in listing order
func (f *fleet) list() []cloud.Fire {
	f.mu.Lock()
	defer f.mu.Unlock()

	fires := make([]cloud.Fire, 0, len(f.order))
	for _, serial := range f.order {
		fires = append(fires, f.units[serial].info)
	}
	return fires
}

// overviewFrames encodes the current state of one fireplace
func (f *fleet) overviewFrames(serial string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.units[serial]
	if !ok {
		return nil, errUnknownSerial
	}
	return u.frames()
}

// apply folds written parameters into one fireplace's state, in order
func (f *fleet) apply(serial string, params []brasa.Parameter) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.units[serial]
	if !ok {
		return errUnknownSerial
	}
	for _, p := range params {
		u.apply(p)
	}
	return nil
}

// fixtureFile is the YAML shape accepted by --fixtures
type fixtureFile struct {
	Fires []fixtureFire `yaml:"fires"`
}

type fixtureFire struct {
	Serial   string `yaml:"serial"`
	Nickname string `yaml:"nickname"`
	Model    string `yaml:"model"`
	Online   *bool  `yaml:"online"`   // omitted means online
	Firmware string `yaml:"firmware"` // "major.minor.patch"
	Fault    uint8  `yaml:"fault"`    // raw fault code, 0 for none
}

// loadFixtures replaces the seeded fleet with units from a YAML file
func (f *fleet) loadFixtures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var parsed fixtureFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse fixtures file: %w", err)
	}
	if len(parsed.Fires) == 0 {
		return fmt.Errorf("fixtures file %s defines no fires", path)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.units = make(map[string]*unit)
	f.order = nil

	for i, fixture := range parsed.Fires {
		if fixture.Serial == "" {
			return fmt.Errorf("fixtures file %s: fire %d has no serial", path, i)
		}

		online := true
		if fixture.Online != nil {
			online = *fixture.Online
		}
		firmware := fixture.Firmware
		if firmware == "" {
			firmware = "1.0.0"
		}

		u := newUnit(cloud.Fire{
			Serial:   fixture.Serial,
			Nickname: fixture.Nickname,
			Model:    fixture.Model,
			Online:   online,
			Firmware: firmware,
		})
		u.fault = brasa.FaultParam{Code: brasa.FaultCode(fixture.Fault)}
		f.add(u)
	}

	return nil
}
