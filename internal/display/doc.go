// Package display converts decoded fireplace parameters into human-readable
// form for the CLI and the dashboard.
//
// The wire protocol is canonical tenths-of-Celsius and RGBW; everything a
// person sees (Fahrenheit, blended RGB swatches, timer durations) is derived
// here so the codec stays unit-free.
package display
