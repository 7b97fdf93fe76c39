package mg

import (
	"database/sql"
	"fmt"

	"mediagrabber/internal/database/sqlc"
)

// Placement says how a candidate file reaches the target tree.
type Placement struct {
	// WithSource records the candidate's location as a source (import only).
	WithSource bool
	// Move removes the original after placing it and prunes emptied directories.
	Move bool
	// Root bounds directory pruning after a move or removal.
	Root string
	// AvoidOccupied also skips names held by another file on disk, for trees
	// whose files are not all indexed yet (rebuild).
	AvoidOccupied bool
}

// Mutator applies the coupled index and filesystem changes. The index change
// always commits before the filesystem is touched, so a crash in between
// leaves a record without a file for the next reconciliation to purge.
type Mutator struct {
	index  Index
	target TargetTree
	fsmgr  FilesystemManager
	namer  *Namer
	logger Logger
	dryRun bool
}

func NewMutator(index Index, target TargetTree, fsmgr FilesystemManager, namer *Namer, logger Logger, dryRun bool) *Mutator {
	return &Mutator{
		index:  index,
		target: target,
		fsmgr:  fsmgr,
		namer:  namer,
		logger: logger,
		dryRun: dryRun,
	}
}

// ArchiveNew records f as new content under a collision-free name and then
// places the bytes. The returned record is valid even when placement fails
// with ErrFilesystemConflict; the index keeps the record so the conflict stays
// visible.
func (m *Mutator) ArchiveNew(f *MediaFile, p Placement) (*sqlc.File, error) {
	hash, err := f.Hash(m.fsmgr)
	if err != nil {
		return nil, err
	}

	folder := FolderFor(f.CaptureTime())
	var occupied func(string) (bool, error)
	if p.AvoidOccupied {
		occupied = func(candidate string) (bool, error) {
			if m.target.Locate(folder, candidate) == f.Path.String() {
				return false, nil
			}
			return m.target.Exists(folder, candidate)
		}
	}
	name, err := m.namer.DeduplicateAvoiding(folder, FilenameFor(f.CaptureTime(), f.Type), occupied)
	if err != nil {
		return nil, err
	}

	record := &sqlc.File{
		Type:           f.Type,
		ByteSize:       f.Size,
		ContentHash:    nullString(hash),
		FileMtime:      f.Ctime,
		CaptureTime:    f.CaptureTime(),
		TargetPath:     folder,
		TargetFilename: name,
		Width:          f.Meta.Width,
		Height:         f.Meta.Height,
		CameraMake:     f.Meta.CameraMake,
		CameraModel:    f.Meta.CameraModel,
		GpsLat:         f.Meta.GPSLat,
		GpsLon:         f.Meta.GPSLon,
	}

	if p.WithSource {
		source := &sqlc.Source{SourcePath: f.Path.Dir(), SourceFilename: f.Path.Name()}
		err = m.index.InsertFileWithSource(record, source)
	} else {
		err = m.index.InsertFile(record)
	}
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", f.Path, err)
	}

	dest := m.target.Locate(folder, name)
	if m.dryRun {
		m.logger.Info("would archive", "source", f.Path.String(), "target", dest, "move", p.Move)
		return record, nil
	}

	if f.Path.String() == dest {
		// Already sitting at its canonical location.
		if err := m.index.MarkCopied(record.ID); err != nil {
			return record, fmt.Errorf("marking %d copied: %w", record.ID, err)
		}
		record.Copied = true
		m.logger.Info("indexed in place", "target", dest)
		return record, nil
	}

	if err := m.place(f.Path, record, p); err != nil {
		return record, err
	}
	m.logger.Info("archived", "source", f.Path.String(), "target", dest, "move", p.Move)
	return record, nil
}

// Relocate moves or copies f onto the existing location of record, used when
// a record's file went missing but an identical copy turned up elsewhere.
func (m *Mutator) Relocate(f *MediaFile, record *sqlc.File, p Placement) error {
	dest := m.target.Locate(record.TargetPath, record.TargetFilename)
	if m.dryRun {
		m.logger.Info("would relocate", "source", f.Path.String(), "target", dest)
		return nil
	}
	if err := m.place(f.Path, record, p); err != nil {
		return err
	}
	m.logger.Info("relocated", "source", f.Path.String(), "target", dest)
	return nil
}

// AddSource records an additional source location for an archived file.
func (m *Mutator) AddSource(f *MediaFile, record *sqlc.File) error {
	source := &sqlc.Source{
		SourcePath:     f.Path.Dir(),
		SourceFilename: f.Path.Name(),
		FileID:         record.ID,
	}
	if err := m.index.InsertSource(source); err != nil {
		return fmt.Errorf("recording source %s: %w", f.Path, err)
	}
	return nil
}

// RemoveDuplicate deletes a redundant physical copy inside the target tree and
// prunes directories it leaves empty. Index state is never touched.
func (m *Mutator) RemoveDuplicate(path *Path, root string) error {
	if m.dryRun {
		m.logger.Info("would remove duplicate", "path", path.String())
		return nil
	}
	if err := m.target.Remove(path); err != nil {
		return err
	}
	if err := m.fsmgr.RemoveEmptyParents(path.Dir(), root); err != nil {
		m.logger.Warn("pruning empty directories", "dir", path.Dir(), "error", err)
	}
	m.logger.Info("removed duplicate", "path", path.String())
	return nil
}

func (m *Mutator) place(src *Path, record *sqlc.File, p Placement) error {
	if err := m.target.Place(src, record.TargetPath, record.TargetFilename, p.Move); err != nil {
		return fmt.Errorf("placing %s: %w", src, err)
	}
	if p.Move && p.Root != "" {
		if err := m.fsmgr.RemoveEmptyParents(src.Dir(), p.Root); err != nil {
			m.logger.Warn("pruning empty directories", "dir", src.Dir(), "error", err)
		}
	}
	if err := m.index.MarkCopied(record.ID); err != nil {
		return fmt.Errorf("marking %d copied: %w", record.ID, err)
	}
	record.Copied = true
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
