package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mediagrabber/internal/mg"
)

// OSFilesystemManager is the real filesystem implementation of mg.FilesystemManager.
// It lists media files by extension and skips ignored directories.
type OSFilesystemManager struct {
	extensions map[string]bool // lowercase, without dot; empty admits every extension
	filter     *DirFilter
}

// NewOSFilesystemManager creates a filesystem manager admitting the given
// extensions (case-insensitive, with or without a leading dot).
func NewOSFilesystemManager(extensions []string, filter *DirFilter) *OSFilesystemManager {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts[e] = true
		}
	}
	if filter == nil {
		filter = &DirFilter{}
	}
	return &OSFilesystemManager{extensions: exts, filter: filter}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*mg.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return mg.NewPath(absPath, info.IsDir(), info), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *mg.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// FindMediaFiles walks root in lexical order. Ignore patterns are matched
// against each directory's path relative to root. Hidden files (the index file,
// temp files from an interrupted copy) are never listed. Unreadable
// subdirectories are skipped; only an unreadable root is an error.
func (m *OSFilesystemManager) FindMediaFiles(root *mg.Path) ([]*mg.Path, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}

	var paths []*mg.Path
	err := filepath.WalkDir(root.String(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root.String() {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p == root.String() {
				return nil
			}
			if rel, err := filepath.Rel(root.String(), p); err == nil && m.filter.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") || !m.admits(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		paths = append(paths, mg.NewPath(p, false, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return paths, nil
}

// RemoveEmptyParents walks upward from dir removing empty directories. It
// stops at stopAt, which is never removed, at the first non-empty directory,
// or when dir does not lie below stopAt at all.
func (m *OSFilesystemManager) RemoveEmptyParents(dir, stopAt string) error {
	stop := filepath.Clean(stopAt)
	for d := filepath.Clean(dir); d != stop && below(d, stop); d = filepath.Dir(d) {
		entries, err := os.ReadDir(d)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s: %w", d, err)
		}
		if len(entries) > 0 {
			return nil
		}
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("removing %s: %w", d, err)
		}
	}
	return nil
}

func (m *OSFilesystemManager) admits(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return m.extensions[ext]
}

// below reports whether path lies strictly inside root.
func below(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Compile-time check that OSFilesystemManager implements mg.FilesystemManager interface
var _ mg.FilesystemManager = (*OSFilesystemManager)(nil)
