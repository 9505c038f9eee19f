package cmd

import (
	"os"
	"path/filepath"

	"github.com/khanhnv2901/hdrscan/internal/application"
)

const memoryLocation = "(in memory)"

// storeLocation returns where the configured store keeps its data, or
// "(in memory)" for the memory driver.
func storeLocation(cfg *CLIConfig) string {
	if cfg.Store.Path != "" {
		if abs, err := filepath.Abs(cfg.Store.Path); err == nil {
			return abs
		}
		return cfg.Store.Path
	}
	if path := application.DefaultStorePath(cfg.Store.Driver); path != "" {
		return path
	}
	return memoryLocation
}

// defaultConfigPath is the config file read when --config is not given.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.hdrscan.yaml"
	}
	return filepath.Join(home, ".hdrscan.yaml")
}

func existsLabel(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "✓ (exists)"
	}
	return "✗ (not created yet)"
}
