// Package brasa implements the Brasa appliance parameter protocol used by
// Emberon EF-series smart fireplaces.
//
// Brasa is the binary format the appliance bus speaks internally. The vendor
// cloud relays it verbatim: a device overview is a concatenation of parameter
// frames, and parameter writes are sent back in the same encoding. This
// package handles encoding and decoding of individual parameter frames; outer
// framing (splitting an overview body into frames) is the transport's job.
//
// # Frame Format
//
// Every parameter frame is a fixed 4-byte header followed by a short payload:
//   - Byte 0: frame magic 0x42
//   - Byte 1: bus unit address (always 0x00 via the cloud path)
//   - Byte 2: parameter tag
//   - Byte 3: payload length
//
// The payload repeats the tag at byte 0 followed by tag-specific fields at
// fixed offsets. All multi-byte fields are big-endian.
//
// # Parameter Types
//
// Known parameter tags:
//   - Operating mode: standby / on / eco
//   - Flame effect: render pattern of the LED flame bed
//   - Heat setpoint: heat mode plus target temperature (tenths of a degree
//     Celsius on the wire; the EF series accepts 10.0-32.0 °C)
//   - Shutdown timer: enabled flag plus minutes remaining
//   - Flame color: four RGBW channels
//   - Firmware version: major.minor.patch
//   - Fault code: appliance fault telemetry
//   - Accent light: light mode plus brightness
//
// Tags outside the known set decode to UnknownParam carrying the raw tag and
// payload. Firmware adds parameter types over time; decoding is total and
// unknown parameters survive a read-modify-write cycle unchanged.
//
// # Usage Example - Decoding
//
//	param, err := brasa.DecodeParameter(frame)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch p := param.(type) {
//	case brasa.SetpointParam:
//	    fmt.Printf("target %.1f°C\n", p.Setpoint.Celsius())
//	case brasa.UnknownParam:
//	    fmt.Printf("unrecognized tag 0x%02x (%d bytes)\n", byte(p.RawTag), len(p.Data))
//	}
//
// # Usage Example - Encoding
//
//	frame, err := brasa.EncodeParameter(brasa.SetpointParam{
//	    HeatMode: brasa.HeatAuto,
//	    Setpoint: brasa.TemperatureFromCelsius(22.5),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Two error classes, both matchable with errors.Is:
//   - ErrMalformedFrame: buffer too short, bad magic, or a declared length
//     inconsistent with the bytes actually present.
//   - ErrEncoding: a value outside its wire-representable range, such as a
//     setpoint beyond the supported span or an out-of-set enum. Raised before
//     any bytes are produced.
//
// An unrecognized tag is not an error on the decode path.
//
// # Thread Safety
//
// Encode and decode are stateless and operate only on their arguments. All
// functions are safe for concurrent use without locking.
package brasa
