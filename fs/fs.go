package fs

import (
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the default config directory for lado.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config/lado.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lado")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lado")
}

// DefaultConfigPath returns the path of the config file in DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// DefaultLogPath returns the path of the debug log in DefaultConfigDir.
func DefaultLogPath() string {
	return filepath.Join(DefaultConfigDir(), "debug.log")
}
