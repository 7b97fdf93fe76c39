package mg

import (
	"io"
	"io/fs"
	"time"
)

// StatData holds the platform-specific timestamps recorded for a file.
type StatData struct {
	Mtime time.Time
	Ctime time.Time
}

// FilesystemManager wraps filesystem access for the source side of an archive run.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// Symlinks, devices, pipes and sockets are rejected.
	Resolve(rawPath string) (*Path, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// ExtractStatData extracts the platform timestamps from a FileInfo.
	ExtractStatData(info fs.FileInfo) (*StatData, error)

	// FindMediaFiles lists regular files under root that pass the extension
	// allow-list and directory ignore patterns, in lexical order.
	FindMediaFiles(root *Path) ([]*Path, error)

	// RemoveEmptyParents removes dir and each ancestor while it is empty,
	// stopping at stopAt (never removed) or the first non-empty directory.
	RemoveEmptyParents(dir, stopAt string) error
}

// TargetTree is the physical, date-structured archive directory.
type TargetTree interface {
	// Root returns the absolute target directory.
	Root() string

	// Locate returns the absolute path of targetPath/filename.
	Locate(targetPath, filename string) string

	// Exists reports whether a regular file is present at targetPath/filename.
	// Errors other than non-existence wrap ErrFilesystemAccess.
	Exists(targetPath, filename string) (bool, error)

	// Place copies or moves src to targetPath/filename, creating directories
	// as needed. An occupied destination fails with ErrFilesystemConflict.
	Place(src *Path, targetPath, filename string, move bool) error

	// Remove deletes a file inside the target tree.
	Remove(path *Path) error

	// ValidateSetup verifies the root is an accessible directory.
	ValidateSetup() error
}
