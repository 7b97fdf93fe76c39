package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"mediagrabber/internal/database/migrations"
	"mediagrabber/internal/database/sqlc"
	"mediagrabber/internal/mg"
)

// SQLiteDatabase implements the mg.Index interface using SQLite.
type SQLiteDatabase struct {
	db       *sql.DB
	queries  *sqlc.Queries
	clock    mg.Clock
	simulate bool
}

// NewSQLiteDatabase opens a SQLite index at path and brings its schema up to date.
// path can be a file path or ":memory:" for an in-memory index.
func NewSQLiteDatabase(path string, clock mg.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
	}, nil
}

// OpenSQLiteDatabase opens the existing index at path. Nothing is created or
// migrated: a missing file or an out-of-date schema is an error.
func OpenSQLiteDatabase(path string, clock mg.Clock) (*SQLiteDatabase, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no index at %s: %w", path, err)
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
	}
	if err := s.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock mg.Clock) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: PRAGMAs are per connection and ":memory:" is per connection too.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// File lookups

func (s *SQLiteDatabase) FindByTargetName(targetPath, baseName, ext string) (*sqlc.File, error) {
	files, err := s.queries.ListFilesByTargetFamily(context.Background(), sqlc.ListFilesByTargetFamilyParams{
		TargetPath:       targetPath,
		TargetFilename:   baseName + "." + ext,
		TargetFilename_2: escapeLike(baseName) + "-%." + escapeLike(ext),
	})
	if err != nil {
		return nil, fmt.Errorf("finding file by target name: %w", err)
	}
	// LIKE also admits names such as "base-x.ext"; keep only numeric suffixes.
	for i := range files {
		if mg.InFamily(files[i].TargetFilename, baseName, ext) {
			return &files[i], nil
		}
	}
	return nil, nil
}

func (s *SQLiteDatabase) FindByCaptureTypeSize(captureTime time.Time, fileType string, size int64) (*sqlc.File, error) {
	file, err := s.queries.GetFileByCaptureTypeSize(context.Background(), sqlc.GetFileByCaptureTypeSizeParams{
		CaptureTime: timestamp(captureTime),
		Type:        fileType,
		ByteSize:    size,
	})
	return found(file, err, "finding file by capture time, type and size")
}

func (s *SQLiteDatabase) FindByHash(hash string) (*sqlc.File, error) {
	file, err := s.queries.GetFileByHash(context.Background(), sql.NullString{String: hash, Valid: true})
	return found(file, err, "finding file by hash")
}

func (s *SQLiteDatabase) FindBySourceLocation(sourcePath, sourceFilename string) (*sqlc.File, error) {
	file, err := s.queries.GetFileBySourceLocation(context.Background(), sqlc.GetFileBySourceLocationParams{
		SourcePath:     sourcePath,
		SourceFilename: sourceFilename,
	})
	return found(file, err, "finding file by source location")
}

func (s *SQLiteDatabase) TargetFilenameExists(targetPath, filename string) (bool, error) {
	n, err := s.queries.CountFilesByTarget(context.Background(), sqlc.CountFilesByTargetParams{
		TargetPath:     targetPath,
		TargetFilename: filename,
	})
	if err != nil {
		return false, fmt.Errorf("checking target filename: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDatabase) ListAllFiles() ([]*sqlc.File, error) {
	files, err := s.queries.ListFiles(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	result := make([]*sqlc.File, len(files))
	for i := range files {
		result[i] = &files[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) ListSources(fileID int64) ([]*sqlc.Source, error) {
	sources, err := s.queries.ListSourcesByFileID(context.Background(), fileID)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	result := make([]*sqlc.Source, len(sources))
	for i := range sources {
		result[i] = &sources[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) CountFiles() (int64, error) {
	n, err := s.queries.CountFiles(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}

func (s *SQLiteDatabase) CountSources() (int64, error) {
	n, err := s.queries.CountSources(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting sources: %w", err)
	}
	return n, nil
}

func (s *SQLiteDatabase) IsEmpty() (bool, error) {
	n, err := s.CountFiles()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Mutations

func (s *SQLiteDatabase) InsertFile(file *sqlc.File) error {
	return s.inTx(func(q *sqlc.Queries) error {
		return s.insertFile(q, file)
	})
}

func (s *SQLiteDatabase) InsertSource(source *sqlc.Source) error {
	return s.inTx(func(q *sqlc.Queries) error {
		return s.insertSource(q, source)
	})
}

// InsertFileWithSource stores a new file and the location it came from in a
// single transaction; neither row survives if either insert fails.
func (s *SQLiteDatabase) InsertFileWithSource(file *sqlc.File, source *sqlc.Source) error {
	return s.inTx(func(q *sqlc.Queries) error {
		if err := s.insertFile(q, file); err != nil {
			return err
		}
		source.FileID = file.ID
		return s.insertSource(q, source)
	})
}

func (s *SQLiteDatabase) MarkCopied(fileID int64) error {
	return s.inTx(func(q *sqlc.Queries) error {
		err := q.UpdateFileCopied(context.Background(), sqlc.UpdateFileCopiedParams{
			CopiedAt: sql.NullTime{Time: s.now(), Valid: true},
			ID:       fileID,
		})
		if err != nil {
			return fmt.Errorf("marking file copied: %w", err)
		}
		return nil
	})
}

func (s *SQLiteDatabase) DeleteFile(fileID int64) error {
	return s.inTx(func(q *sqlc.Queries) error {
		if _, err := q.DeleteFileByID(context.Background(), fileID); err != nil {
			return fmt.Errorf("deleting file: %w", err)
		}
		return nil
	})
}

func (s *SQLiteDatabase) DeleteAllSources() (int64, error) {
	var n int64
	err := s.inTx(func(q *sqlc.Queries) error {
		var err error
		n, err = q.DeleteAllSources(context.Background())
		if err != nil {
			return fmt.Errorf("deleting sources: %w", err)
		}
		return nil
	})
	return n, err
}

func (s *SQLiteDatabase) DeleteAllFiles() (int64, error) {
	var n int64
	err := s.inTx(func(q *sqlc.Queries) error {
		var err error
		n, err = q.DeleteAllFiles(context.Background())
		if err != nil {
			return fmt.Errorf("deleting files: %w", err)
		}
		return nil
	})
	return n, err
}

// Run history

func (s *SQLiteDatabase) CreateRun(runID, mode, parameters string) (*sqlc.Run, error) {
	run := &sqlc.Run{
		RunID:      runID,
		Mode:       mode,
		Parameters: parameters,
		StartedAt:  s.now(),
		Status:     "running",
	}
	err := s.inTx(func(q *sqlc.Queries) error {
		id, err := q.InsertRun(context.Background(), sqlc.InsertRunParams{
			RunID:      run.RunID,
			Mode:       run.Mode,
			Parameters: run.Parameters,
			StartedAt:  run.StartedAt,
		})
		if err != nil {
			return fmt.Errorf("creating run: %w", classify(err))
		}
		run.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteDatabase) FinishRun(id int64, status string) error {
	return s.inTx(func(q *sqlc.Queries) error {
		err := q.UpdateRunFinished(context.Background(), sqlc.UpdateRunFinishedParams{
			FinishedAt: sql.NullTime{Time: s.now(), Valid: true},
			Status:     status,
			ID:         id,
		})
		if err != nil {
			return fmt.Errorf("finishing run: %w", err)
		}
		return nil
	})
}

func (s *SQLiteDatabase) ListRuns(limit int) ([]*sqlc.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	runs, err := s.queries.ListRuns(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	result := make([]*sqlc.Run, len(runs))
	for i := range runs {
		result[i] = &runs[i]
	}
	return result, nil
}

// SetSimulate toggles rollback-only mode.
func (s *SQLiteDatabase) SetSimulate(simulate bool) {
	s.simulate = simulate
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) insertFile(q *sqlc.Queries, file *sqlc.File) error {
	file.AddedAt = s.now()
	file.CaptureTime = timestamp(file.CaptureTime)
	file.FileMtime = timestamp(file.FileMtime)

	id, err := q.InsertFile(context.Background(), sqlc.InsertFileParams{
		Type:           file.Type,
		ByteSize:       file.ByteSize,
		ContentHash:    file.ContentHash,
		FileMtime:      file.FileMtime,
		CaptureTime:    file.CaptureTime,
		TargetPath:     file.TargetPath,
		TargetFilename: file.TargetFilename,
		Width:          file.Width,
		Height:         file.Height,
		CameraMake:     file.CameraMake,
		CameraModel:    file.CameraModel,
		GpsLat:         file.GpsLat,
		GpsLon:         file.GpsLon,
		AddedAt:        file.AddedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting file %s/%s: %w", file.TargetPath, file.TargetFilename, classify(err))
	}
	file.ID = id
	return nil
}

func (s *SQLiteDatabase) insertSource(q *sqlc.Queries, source *sqlc.Source) error {
	source.AddedAt = s.now()

	id, err := q.InsertSource(context.Background(), sqlc.InsertSourceParams{
		SourcePath:     source.SourcePath,
		SourceFilename: source.SourceFilename,
		FileID:         source.FileID,
		AddedAt:        source.AddedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting source %s/%s: %w", source.SourcePath, source.SourceFilename, classify(err))
	}
	source.ID = id
	return nil
}

// inTx runs fn in a transaction. In simulate mode the transaction is always
// rolled back, even when fn succeeds.
func (s *SQLiteDatabase) inTx(fn func(q *sqlc.Queries) error) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if s.simulate {
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) now() time.Time {
	return timestamp(s.clock.Now())
}

// timestamp normalises times to UTC seconds so stored values compare equal.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// classify maps SQLite constraint failures onto the index error kinds.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", mg.ErrUniquenessViolation, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", mg.ErrDanglingReference, err)
	default:
		return err
	}
}

func found(file sqlc.File, err error, what string) (*sqlc.File, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return &file, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Compile-time check that SQLiteDatabase implements mg.Index interface
var _ mg.Index = (*SQLiteDatabase)(nil)
