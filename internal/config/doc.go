// Package config provides user configuration management for the emberon CLI.
//
// This package manages a YAML-based configuration file that caches fireplace
// metadata (nicknames, models) and stores application preferences such as the
// default fireplace and temperature display unit. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/emberon/config.yaml or $HOME/.config/emberon/config.yaml
//   - macOS: $HOME/.config/emberon/config.yaml
//   - Windows: %LOCALAPPDATA%\emberon\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores account passwords or API tokens.
// Tokens live in the EMBERON_TOKEN environment variable or wherever the
// user chooses to keep them.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Cache metadata from a fresh listing
//	registry.RememberFire("EF36-0042", "Living Room", "EF36-PRO")
//	registry.SetDefaultFire("EF36-0042")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
