package brasa

import "errors"

// Error classes surfaced by this package. Detail is wrapped around these
// sentinels with fmt.Errorf, so callers match with errors.Is.
var (
	// ErrMalformedFrame reports a buffer that cannot be a Brasa frame:
	// shorter than the header, wrong magic byte, a declared payload length
	// beyond the bytes present, or a payload inconsistent with its tag.
	ErrMalformedFrame = errors.New("brasa: malformed frame")

	// ErrEncoding reports a parameter value with no wire representation:
	// a setpoint outside the supported span, an enum value outside its set,
	// or a parameter type the encoder does not know. No bytes are produced
	// when encoding fails.
	ErrEncoding = errors.New("brasa: encoding error")
)
