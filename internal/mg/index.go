package mg

import (
	"time"

	"mediagrabber/internal/database/sqlc"
)

// Index is the persistent record store for archived files and the source
// locations that presented them. It is the only component that mutates
// either table. Lookups return nil, nil when nothing matches.
type Index interface {
	// File lookups

	// FindByTargetName returns the first record in targetPath whose filename
	// is baseName.ext or a suffixed variant baseName-N.ext.
	FindByTargetName(targetPath, baseName, ext string) (*sqlc.File, error)

	// FindByCaptureTypeSize returns a record with exactly this capture time, type and size.
	FindByCaptureTypeSize(captureTime time.Time, fileType string, size int64) (*sqlc.File, error)

	// FindByHash returns the record holding the given content hash.
	FindByHash(hash string) (*sqlc.File, error)

	// FindBySourceLocation returns the record a source location was recorded against.
	FindBySourceLocation(sourcePath, sourceFilename string) (*sqlc.File, error)

	// TargetFilenameExists reports whether (targetPath, filename) is taken.
	TargetFilenameExists(targetPath, filename string) (bool, error)

	// ListAllFiles returns every record, oldest first.
	ListAllFiles() ([]*sqlc.File, error)

	// ListSources returns the source locations recorded for a file.
	ListSources(fileID int64) ([]*sqlc.Source, error)

	CountFiles() (int64, error)
	CountSources() (int64, error)

	// IsEmpty reports whether the index holds no file records.
	IsEmpty() (bool, error)

	// Mutations. Each call runs in its own transaction.

	// InsertFile stores a new record and fills in its ID and AddedAt.
	// Fails with ErrUniquenessViolation on a taken target name or content hash.
	InsertFile(file *sqlc.File) error

	// InsertSource fails with ErrUniquenessViolation on a known location and
	// ErrDanglingReference when FileID has no record.
	InsertSource(source *sqlc.Source) error

	// InsertFileWithSource stores both records as one unit.
	InsertFileWithSource(file *sqlc.File, source *sqlc.Source) error

	MarkCopied(fileID int64) error

	// DeleteFile removes a record along with its source records.
	DeleteFile(fileID int64) error

	// DeleteAllSources drops every source record and returns how many were removed.
	DeleteAllSources() (int64, error)

	// DeleteAllFiles drops every file record (and by cascade every source record).
	DeleteAllFiles() (int64, error)

	// Run history

	CreateRun(runID, mode, parameters string) (*sqlc.Run, error)
	FinishRun(id int64, status string) error
	ListRuns(limit int) ([]*sqlc.Run, error)

	// SetSimulate switches the index into rollback-only mode: every mutation
	// executes and reports success but is never committed.
	SetSimulate(simulate bool)

	Close() error
}
