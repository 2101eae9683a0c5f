package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cfohelper/internal/client"
)

// State is what cfoctl remembers between runs
type State struct {
	Server   string          `toml:"server"`
	Username string          `toml:"username,omitempty"`
	Timezone string          `toml:"timezone,omitempty"`
	Settings client.Settings `toml:"settings"`
	Usage    UsageState      `toml:"usage"`
}

// UsageState holds the per-panel simulation counters
type UsageState struct {
	Dashboard int `toml:"dashboard"`
	Forecast  int `toml:"forecast"`
}

// DefaultState returns the state of a fresh install
func DefaultState() State {
	return State{
		Server:   client.DevAPIBaseURL,
		Settings: client.DefaultSettings(),
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfohelper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cfohelper")
}

// ConfigPath returns the full path to the state file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadState reads the state file, returning defaults if it doesn't exist.
func LoadState(path string) (State, error) {
	st := DefaultState()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parsing config: %w", err)
	}
	return st, nil
}

// SaveState writes the state file, creating its directory.
func SaveState(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(st)
}
