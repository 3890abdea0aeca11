package cloud

import "time"

// Fire describes one fireplace registered to the account, as returned by
// the fires listing endpoint.
type Fire struct {
	// Serial is the unit's serial number, printed on the rating plate.
	// It addresses the fireplace in every other API call.
	Serial string `json:"serial"`

	// Nickname is the user-assigned name from the mobile app ("Living Room").
	// May be empty for units that were never renamed.
	Nickname string `json:"nickname"`

	// Model is the product model code (e.g. "EF36-PRO").
	Model string `json:"model"`

	// Online reports whether the unit currently holds a connection
	// to the cloud.
	Online bool `json:"online"`

	// Firmware is the firmware version the unit last reported,
	// in "major.minor.patch" form.
	Firmware string `json:"firmware"`
}

// Label returns the nickname if the fireplace has one, otherwise the serial.
func (f Fire) Label() string {
	if f.Nickname != "" {
		return f.Nickname
	}
	return f.Serial
}

type firesResponse struct {
	Fires []Fire `json:"fires"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
