package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for mediagrabber.
type Config struct {
	LogDir   string         `toml:"log_dir"`
	Archive  ArchiveConfig  `toml:"archive"`
	Database DatabaseConfig `toml:"database"`
	Metadata MetadataConfig `toml:"metadata"`
}

// ArchiveConfig describes what gets archived where.
// Ignore entries are regular expressions matched anywhere in a directory path.
type ArchiveConfig struct {
	Sources    []string `toml:"sources"`
	Target     string   `toml:"target"`
	Extensions []string `toml:"extensions"`
	Ignore     []string `toml:"ignore"`
	Move       bool     `toml:"move"`
}

// DatabaseConfig represents configuration for the archive index.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type     string `toml:"type"`               // "sqlite" or "memory"
	Filename string `toml:"filename,omitempty"` // only used for type=sqlite, relative to the target
}

// MetadataConfig selects how capture times are read from files.
type MetadataConfig struct {
	Type             string `toml:"type"`                    // "exif" (default) or "exiftool"
	ExiftoolPath     string `toml:"exiftool_path,omitempty"` // only used for type=exiftool
	FileTimeFallback bool   `toml:"file_time_fallback"`      // use the modification time when no date tag is found
}

// DefaultExtensions are archived when no extension list is configured.
var DefaultExtensions = []string{"jpg", "mov", "mts", "mp4"}

// DefaultIgnore skips NAS thumbnail folders, VCS metadata and dunder directories.
var DefaultIgnore = []string{`@eaDir`, `\.svn`, `__`}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir: filepath.Join(baseDir, "log"),
		Archive: ArchiveConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
			Ignore:     append([]string(nil), DefaultIgnore...),
		},
		Database: DatabaseConfig{Type: "sqlite", Filename: ".mediagrabber.db"},
		Metadata: MetadataConfig{Type: "exif", FileTimeFallback: true},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys absent from the input
// keep the values already in base, so callers can layer a file over defaults.
func (m *Manager) Read(r io.Reader, base *Config) (*Config, error) {
	cfg := *base
	cfg.Archive.Sources = slices.Clone(base.Archive.Sources)
	cfg.Archive.Extensions = slices.Clone(base.Archive.Extensions)
	cfg.Archive.Ignore = slices.Clone(base.Archive.Ignore)
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads the config at path on top of base.
// A missing file is not an error: base is returned unchanged.
func ReadFromFile(path string, base *Config) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, base)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. An existing file is never overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
