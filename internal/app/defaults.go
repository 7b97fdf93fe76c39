package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - MEDIAGRABBER_CONFIG_PATH: config file location (default: $XDG_CONFIG_HOME/mediagrabber.toml)
//   - MEDIAGRABBER_HOME: base directory for logs (default: $XDG_STATE_HOME/mediagrabber)
func GetDefaults() (map[string]string, error) {
	xdg.Reload()
	if xdg.Home == "" {
		return nil, fmt.Errorf("cannot determine home directory")
	}

	configPath := os.Getenv("MEDIAGRABBER_CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(xdg.ConfigHome, "mediagrabber.toml")
	}

	baseDir := os.Getenv("MEDIAGRABBER_HOME")
	if baseDir == "" {
		baseDir = filepath.Join(xdg.StateHome, "mediagrabber")
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}
