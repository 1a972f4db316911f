package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const preferencesFile = "preferences.json"

// Preferences holds terminal chat settings that persist across runs.
// Conversations are never stored here.
type Preferences struct {
	Style string `json:"style,omitempty"`
}

// DefaultPreferences returns the default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{Style: "dark"}
}

// PreferencesDir returns the per-user directory preferences live in, or ""
// when no home directory is available.
func PreferencesDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "campusbot")
}

// LoadPreferences reads preferences from dir. A missing or unreadable file
// yields the defaults.
func LoadPreferences(dir string) *Preferences {
	if dir == "" {
		return DefaultPreferences()
	}

	data, err := os.ReadFile(filepath.Join(dir, preferencesFile))
	if err != nil {
		return DefaultPreferences()
	}

	prefs := DefaultPreferences()
	if err := json.Unmarshal(data, prefs); err != nil {
		return DefaultPreferences()
	}
	return prefs
}

// Save writes the preferences to dir, creating it if needed.
func (p *Preferences) Save(dir string) error {
	if dir == "" {
		return fmt.Errorf("no preferences directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, preferencesFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}
	return nil
}
