package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "emberon") {
		t.Errorf("GetConfigDir() = %v, should contain 'emberon'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") && os.Getenv("XDG_CONFIG_HOME") == "" {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Fires == nil {
		t.Error("NewRegistry().Fires should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.TemperatureUnit() != "celsius" {
		t.Errorf("TemperatureUnit() = %v, want celsius by default", reg.TemperatureUnit())
	}

	if reg.DefaultFire() != "" {
		t.Errorf("DefaultFire() = %v, want empty by default", reg.DefaultFire())
	}
}

func TestRegistryEnsureFire(t *testing.T) {
	reg := NewRegistry()

	// First call should create the entry
	fire1 := reg.EnsureFire("EF36-0042")
	if fire1 == nil {
		t.Fatal("EnsureFire() returned nil")
	}

	// Second call should return same entry
	fire2 := reg.EnsureFire("EF36-0042")
	if fire1 != fire2 {
		t.Error("EnsureFire() should return same instance for same serial")
	}

	// Different serial should create new entry
	fire3 := reg.EnsureFire("EF50-0117")
	if fire1 == fire3 {
		t.Error("EnsureFire() should create new instance for different serial")
	}
}

func TestRegistryRememberFire(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RememberFire("EF36-0042", "Living Room", "EF36-PRO")
	after := time.Now()

	fire := reg.GetFire("EF36-0042")
	if fire == nil {
		t.Fatal("Fire should exist after RememberFire()")
	}

	if fire.Nickname != "Living Room" {
		t.Errorf("Nickname = %v, want 'Living Room'", fire.Nickname)
	}

	if fire.Model != "EF36-PRO" {
		t.Errorf("Model = %v, want EF36-PRO", fire.Model)
	}

	if fire.LastSeen.Before(before) || fire.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", fire.LastSeen, before, after)
	}
}

func TestRegistryLabel(t *testing.T) {
	reg := NewRegistry()
	reg.RememberFire("EF36-0042", "Living Room", "EF36-PRO")
	reg.EnsureFire("EF50-0117")

	if got := reg.Label("EF36-0042"); got != "Living Room" {
		t.Errorf("Label() = %v, want 'Living Room'", got)
	}

	if got := reg.Label("EF50-0117"); got != "EF50-0117" {
		t.Errorf("Label() = %v, want serial fallback", got)
	}

	if got := reg.Label("EF99-9999"); got != "EF99-9999" {
		t.Errorf("Label() for unknown serial = %v, want serial", got)
	}
}

func TestRegistryDefaultFire(t *testing.T) {
	reg := NewRegistry()

	reg.SetDefaultFire("EF36-0042")

	if reg.DefaultFire() != "EF36-0042" {
		t.Errorf("DefaultFire() = %v, want EF36-0042", reg.DefaultFire())
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.RememberFire("EF36-0042", "Living Room", "EF36-PRO")
	reg.SetDefaultFire("EF36-0042")
	reg.Preferences.TemperatureUnit = "fahrenheit"

	if err := reg.saveToPath(configPath); err != nil {
		t.Fatalf("saveToPath() error = %v", err)
	}

	// File must be user-only
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := loadRegistryFromPath(configPath)
	if err != nil {
		t.Fatalf("loadRegistryFromPath() error = %v", err)
	}

	fire := loaded.GetFire("EF36-0042")
	if fire == nil {
		t.Fatal("Fire should exist in loaded registry")
	}

	if fire.Nickname != "Living Room" {
		t.Errorf("Loaded nickname = %v, want 'Living Room'", fire.Nickname)
	}

	if fire.Model != "EF36-PRO" {
		t.Errorf("Loaded model = %v, want EF36-PRO", fire.Model)
	}

	if loaded.DefaultFire() != "EF36-0042" {
		t.Errorf("Loaded DefaultFire() = %v, want EF36-0042", loaded.DefaultFire())
	}

	if loaded.TemperatureUnit() != "fahrenheit" {
		t.Errorf("Loaded TemperatureUnit() = %v, want fahrenheit", loaded.TemperatureUnit())
	}
}

func TestLoadRegistryFromPath_Missing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	reg, err := loadRegistryFromPath(configPath)
	if err != nil {
		t.Fatalf("loadRegistryFromPath() on missing file error = %v, want fresh registry", err)
	}

	if reg.Version != 1 {
		t.Errorf("Version = %v, want 1", reg.Version)
	}

	if len(reg.Fires) != 0 {
		t.Errorf("fresh registry should have no fires, got %d", len(reg.Fires))
	}
}

func TestLoadRegistryFromPath_BadVersion(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 9\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := loadRegistryFromPath(configPath)
	if err == nil {
		t.Fatal("loadRegistryFromPath() should reject unsupported version")
	}

	if !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("error = %v, want version complaint", err)
	}
}

func TestLoadRegistryFromPath_CorruptYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: [not yaml"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := loadRegistryFromPath(configPath)
	if err == nil {
		t.Fatal("loadRegistryFromPath() should reject corrupt YAML")
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.RememberFire("EF36-0042", "First", "EF36")
	if err := reg.saveToPath(configPath); err != nil {
		t.Fatalf("saveToPath() error = %v", err)
	}

	reg.RememberFire("EF36-0042", "Second", "EF36")
	if err := reg.saveToPath(configPath); err != nil {
		t.Fatalf("saveToPath() error = %v", err)
	}

	// No temp file may be left behind
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := loadRegistryFromPath(configPath)
	if err != nil {
		t.Fatalf("loadRegistryFromPath() error = %v", err)
	}

	if got := loaded.GetFire("EF36-0042").Nickname; got != "Second" {
		t.Errorf("Nickname = %v, want 'Second'", got)
	}
}

// Benchmark tests

func BenchmarkEnsureFire(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureFire("EF36-0042")
	}
}
