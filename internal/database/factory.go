package database

import (
	"fmt"
	"path/filepath"

	"mediagrabber/internal/config"
	"mediagrabber/internal/mg"
)

// DefaultFilename is the index file kept at the root of the target tree.
const DefaultFilename = ".mediagrabber.db"

// NewIndexFromConfig creates an Index implementation based on the database config type.
// A sqlite index lives inside the target directory it describes.
func NewIndexFromConfig(cfg config.DatabaseConfig, targetRoot string, clock mg.Clock) (mg.Index, error) {
	switch cfg.Type {
	case "", "sqlite":
		path, err := indexPath(cfg, targetRoot)
		if err != nil {
			return nil, err
		}
		return NewSQLiteDatabase(path, clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// OpenIndexFromConfig opens an existing index without creating or migrating
// it. A memory index is always fresh.
func OpenIndexFromConfig(cfg config.DatabaseConfig, targetRoot string, clock mg.Clock) (mg.Index, error) {
	switch cfg.Type {
	case "", "sqlite":
		path, err := indexPath(cfg, targetRoot)
		if err != nil {
			return nil, err
		}
		return OpenSQLiteDatabase(path, clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func indexPath(cfg config.DatabaseConfig, targetRoot string) (string, error) {
	if targetRoot == "" {
		return "", fmt.Errorf("target directory required for sqlite database")
	}
	name := cfg.Filename
	if name == "" {
		name = DefaultFilename
	}
	return filepath.Join(targetRoot, name), nil
}
