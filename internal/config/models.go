package config

import "time"

// Registry represents the entire user configuration file.
// This stores client-side metadata for fireplaces and application preferences.
type Registry struct {
	Version     int              `yaml:"version"`
	Fires       map[string]*Fire `yaml:"fires,omitempty"` // Keyed by unit serial number
	Preferences *Preferences     `yaml:"preferences,omitempty"`
}

// Fire represents cached metadata for a single fireplace. The cloud is the
// source of truth; this copy lets the CLI label units without a network call.
type Fire struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-assigned name from the account
	Model    string    `yaml:"model,omitempty"`     // Product model code
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last time a listing included this unit
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultFire     string `yaml:"default_fire,omitempty"`     // Serial used when --fire is not given
	TemperatureUnit string `yaml:"temperature_unit,omitempty"` // "celsius" (default) or "fahrenheit"
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Fires:   make(map[string]*Fire),
		Preferences: &Preferences{
			TemperatureUnit: "celsius",
		},
	}
}

// GetFire retrieves fireplace metadata by serial number.
// Returns nil if the fireplace doesn't exist in the registry.
func (r *Registry) GetFire(serial string) *Fire {
	return r.Fires[serial]
}

// EnsureFire ensures a fireplace entry exists in the registry.
// If the entry doesn't exist, creates a new one.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureFire(serial string) *Fire {
	if r.Fires == nil {
		r.Fires = make(map[string]*Fire)
	}

	if fire, exists := r.Fires[serial]; exists {
		return fire
	}

	fire := &Fire{}
	r.Fires[serial] = fire
	return fire
}

// RememberFire refreshes the cached metadata for a unit from a listing.
func (r *Registry) RememberFire(serial, nickname, model string) {
	fire := r.EnsureFire(serial)
	fire.Nickname = nickname
	fire.Model = model
	fire.LastSeen = time.Now()
}

// Label returns the nickname for a serial if one is cached, otherwise
// the serial itself.
func (r *Registry) Label(serial string) string {
	if fire := r.GetFire(serial); fire != nil && fire.Nickname != "" {
		return fire.Nickname
	}
	return serial
}

// SetDefaultFire records the unit to use when a command names none.
func (r *Registry) SetDefaultFire(serial string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
	r.Preferences.DefaultFire = serial
}

// DefaultFire returns the configured default unit serial, or "".
func (r *Registry) DefaultFire() string {
	if r.Preferences == nil {
		return ""
	}
	return r.Preferences.DefaultFire
}

// SetTemperatureUnit records the preferred display unit.
func (r *Registry) SetTemperatureUnit(unit string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
	r.Preferences.TemperatureUnit = unit
}

// TemperatureUnit returns the configured display unit, defaulting to celsius.
func (r *Registry) TemperatureUnit() string {
	if r.Preferences == nil || r.Preferences.TemperatureUnit == "" {
		return "celsius"
	}
	return r.Preferences.TemperatureUnit
}
