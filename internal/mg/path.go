package mg

import (
	"io/fs"
	"path/filepath"
)

// Path is a validated absolute filesystem path with the stat info captured
// when it was resolved. Paths are created by FilesystemManager implementations.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

func (p *Path) String() string { return p.absPath }

func (p *Path) IsDir() bool { return p.isDir }

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo { return p.info }

// Dir returns the directory containing the path.
func (p *Path) Dir() string { return filepath.Dir(p.absPath) }

// Name returns the last element of the path.
func (p *Path) Name() string { return filepath.Base(p.absPath) }
