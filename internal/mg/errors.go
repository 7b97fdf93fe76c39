package mg

import "errors"

// Error kinds surfaced by the archive components. Callers test them with errors.Is.
var (
	// ErrMetadataIncomplete means no capture time could be derived for a file.
	ErrMetadataIncomplete = errors.New("metadata incomplete")

	// ErrUniquenessViolation means an index insert collided with an existing record.
	ErrUniquenessViolation = errors.New("uniqueness violation")

	// ErrDanglingReference means a source record pointed at a missing file record.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrFilesystemConflict means the physical target path is occupied.
	ErrFilesystemConflict = errors.New("filesystem conflict")

	// ErrFilesystemAccess wraps I/O failures on copy, move, delete or stat.
	ErrFilesystemAccess = errors.New("filesystem access error")

	// ErrConfiguration is fatal: the run cannot start.
	ErrConfiguration = errors.New("configuration error")
)
