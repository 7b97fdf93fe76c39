package mg

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"mediagrabber/internal/database/sqlc"
)

// MGService sequences the resolver, mutator and reconciler into the three
// archive modes: import, rebuild-index and reset. Processing is strictly
// sequential; each file is resolved, recorded and placed before the next.
type MGService struct {
	index      Index
	fsmgr      FilesystemManager
	target     TargetTree
	extractors ExtractorFactory
	logger     Logger
	clock      Clock

	resolver   *Resolver
	mutator    *Mutator
	reconciler *Reconciler
}

// NewMGService wires the archive components around the given collaborators.
// With dryRun set no file is copied, moved or removed; the index should be
// put in simulate mode by the caller.
func NewMGService(index Index, fsmgr FilesystemManager, target TargetTree, extractors ExtractorFactory, logger Logger, clock Clock, dryRun bool) *MGService {
	namer := NewNamer(index)
	return &MGService{
		index:      index,
		fsmgr:      fsmgr,
		target:     target,
		extractors: extractors,
		logger:     logger,
		clock:      clock,
		resolver:   NewResolver(index, fsmgr),
		mutator:    NewMutator(index, target, fsmgr, namer, logger, dryRun),
		reconciler: NewReconciler(index, target, logger),
	}
}

type scanOptions struct {
	importMode bool
	move       bool
}

// Import ingests every media file under the given source directories. New
// content is recorded with its source and copied (or moved) into the target
// tree; content already archived only gains a source record. An empty index
// is rebuilt from the target tree first.
func (s *MGService) Import(sources []*Path, move bool) (*Stats, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no usable source directories", ErrConfiguration)
	}

	stats := newStats("import", s.clock.Now())
	err := s.withExtractor(func(x MetadataExtractor) error {
		empty, err := s.index.IsEmpty()
		if err != nil {
			return fmt.Errorf("checking index: %w", err)
		}
		if empty {
			s.logger.Info("index is empty, rebuilding from target first")
			if err := s.rebuild(x, stats); err != nil {
				return err
			}
		}

		for _, src := range sources {
			if within(src.String(), s.target.Root()) {
				s.logger.Warn("source lies inside the target tree, skipped", "source", src.String())
				continue
			}
			if err := s.scan(x, src, scanOptions{importMode: true, move: move}, stats); err != nil {
				return err
			}
		}
		return nil
	})
	stats.FinishedAt = s.clock.Now()
	return stats, err
}

// RebuildIndex purges records whose target file is gone, then scans the
// target tree itself: unindexed files are recorded, misplaced ones moved into
// place and redundant copies removed. No source records are written.
func (s *MGService) RebuildIndex() (*Stats, error) {
	stats := newStats("index", s.clock.Now())
	err := s.withExtractor(func(x MetadataExtractor) error {
		return s.rebuild(x, stats)
	})
	stats.FinishedAt = s.clock.Now()
	return stats, err
}

// Reset drops every source record. With all set it also drops every file
// record. Physical files are never touched.
func (s *MGService) Reset(all bool) (*Stats, error) {
	stats := newStats("reset", s.clock.Now())
	defer func() { stats.FinishedAt = s.clock.Now() }()

	n, err := s.index.DeleteAllSources()
	if err != nil {
		return stats, fmt.Errorf("dropping sources: %w", err)
	}
	stats.SourcesDropped = n
	s.logger.Info("sources dropped", "count", n)

	if all {
		n, err := s.index.DeleteAllFiles()
		if err != nil {
			return stats, fmt.Errorf("dropping files: %w", err)
		}
		stats.FilesDropped = n
		s.logger.Warn("all file records dropped", "count", n)
	}
	return stats, nil
}

// History returns the most recent runs.
func (s *MGService) History(limit int) ([]*sqlc.Run, error) {
	return s.index.ListRuns(limit)
}

// ArchivedFiles returns every indexed file, oldest first.
func (s *MGService) ArchivedFiles() ([]*sqlc.File, error) {
	return s.index.ListAllFiles()
}

// withExtractor holds one extractor for the whole run and releases it on every path.
func (s *MGService) withExtractor(fn func(MetadataExtractor) error) error {
	x, err := s.extractors()
	if err != nil {
		return fmt.Errorf("starting metadata extractor: %w", err)
	}
	defer func() {
		if err := x.Close(); err != nil {
			s.logger.Warn("stopping metadata extractor", "error", err)
		}
	}()
	return fn(x)
}

func (s *MGService) rebuild(x MetadataExtractor, stats *Stats) error {
	res, err := s.reconciler.Validate()
	if err != nil {
		return err
	}
	stats.Validated += res.Checked
	stats.RecordsRemoved += res.Removed
	stats.Errors += res.Errors

	root, err := s.fsmgr.Resolve(s.target.Root())
	if err != nil {
		return fmt.Errorf("%w: target: %v", ErrConfiguration, err)
	}
	return s.scan(x, root, scanOptions{move: true}, stats)
}

func (s *MGService) scan(x MetadataExtractor, root *Path, opts scanOptions, stats *Stats) error {
	paths, err := s.fsmgr.FindMediaFiles(root)
	if err != nil {
		s.logger.Error("listing files", "root", root.String(), "error", err)
		stats.Errors++
		return nil
	}
	if opts.importMode && within(s.target.Root(), root.String()) {
		paths = slices.DeleteFunc(paths, func(p *Path) bool {
			return within(p.String(), s.target.Root())
		})
		s.logger.Warn("target lies inside the source, its files are left out", "source", root.String())
	}
	if !opts.importMode {
		// Files already in a date folder claim their names before strays do.
		slices.SortStableFunc(paths, func(a, b *Path) int {
			da, db := inDateFolder(root, a), inDateFolder(root, b)
			switch {
			case da == db:
				return 0
			case da:
				return -1
			}
			return 1
		})
	}
	s.logger.Info("scanning", "root", root.String(), "files", len(paths), "import", opts.importMode)

	for _, p := range paths {
		stats.Processed++
		if err := s.processFile(x, p, root, opts, stats); err != nil {
			s.recordFailure(p, err, stats)
		}
	}
	return nil
}

func (s *MGService) processFile(x MetadataExtractor, p *Path, root *Path, opts scanOptions, stats *Stats) error {
	if opts.importMode {
		known, err := s.index.FindBySourceLocation(p.Dir(), p.Name())
		if err != nil {
			return fmt.Errorf("looking up source location: %w", err)
		}
		if known != nil {
			stats.Skipped++
			s.logger.Debug("known source, skipped", "path", p.String(), "file_id", known.ID)
			return nil
		}
	}

	meta, err := x.Extract(p)
	if err != nil {
		return fmt.Errorf("extracting metadata: %w", err)
	}
	stat, err := s.fsmgr.ExtractStatData(p.Info())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystemAccess, err)
	}
	f := NewMediaFile(p, stat, meta)

	res, err := s.resolver.Resolve(f)
	if err != nil {
		return err
	}
	s.logger.Debug("resolved", "path", p.String(), "decision", res.Decision.String())

	switch res.Decision {
	case DecisionNameCollision:
		stats.Collisions++
		s.logger.Warn("name taken by different content, disambiguating", "path", p.String(), "capture_time", f.CaptureTime().Format(BaseNameLayout))
		return s.archive(f, root, opts, stats)
	case DecisionDuplicateContent:
		s.logger.Warn("same content archived under a different name", "path", p.String(),
			"archived_as", s.target.Locate(res.Match.TargetPath, res.Match.TargetFilename))
		return s.duplicate(f, res.Match, root, opts, stats)
	case DecisionExactDuplicate:
		return s.duplicate(f, res.Match, root, opts, stats)
	default:
		return s.archive(f, root, opts, stats)
	}
}

func (s *MGService) archive(f *MediaFile, root *Path, opts scanOptions, stats *Stats) error {
	record, err := s.mutator.ArchiveNew(f, Placement{
		WithSource:    opts.importMode,
		Move:          opts.move,
		Root:          root.String(),
		AvoidOccupied: !opts.importMode,
	})
	if record != nil {
		stats.Added++
		if opts.importMode {
			stats.SourcesAdded++
		}
	}
	return err
}

func (s *MGService) duplicate(f *MediaFile, match *sqlc.File, root *Path, opts scanOptions, stats *Stats) error {
	if opts.importMode {
		stats.Duplicates++
		if err := s.mutator.AddSource(f, match); err != nil {
			return err
		}
		stats.SourcesAdded++
		s.logger.Info("already archived, source recorded", "path", f.Path.String(), "file_id", match.ID)
		return nil
	}

	canonical := s.target.Locate(match.TargetPath, match.TargetFilename)
	if f.Path.String() == canonical {
		stats.InPlace++
		return nil
	}

	stats.Duplicates++
	exists, err := s.target.Exists(match.TargetPath, match.TargetFilename)
	if err != nil {
		return err
	}
	if exists {
		if err := s.mutator.RemoveDuplicate(f.Path, root.String()); err != nil {
			return err
		}
		stats.DuplicatesRemoved++
		return nil
	}

	if err := s.mutator.Relocate(f, match, Placement{Move: opts.move, Root: root.String()}); err != nil {
		return err
	}
	stats.Relocated++
	return nil
}

func (s *MGService) recordFailure(p *Path, err error, stats *Stats) {
	switch {
	case errors.Is(err, ErrMetadataIncomplete):
		stats.Skipped++
		s.logger.Warn("no capture time, skipped", "path", p.String(), "error", err)
	case errors.Is(err, ErrFilesystemConflict):
		stats.Conflicts++
		s.logger.Warn("target path occupied, file not placed", "path", p.String(), "error", err)
	case errors.Is(err, ErrUniquenessViolation), errors.Is(err, ErrDanglingReference):
		stats.Errors++
		s.logger.Error("index constraint violated", "path", p.String(), "error", err)
	default:
		stats.Errors++
		s.logger.Error("processing file", "path", p.String(), "error", err)
	}
}

// inDateFolder reports whether p sits directly in a YYYY/YYYY-MM/YYYY-MM-DD
// folder of root.
func inDateFolder(root, p *Path) bool {
	rel, err := filepath.Rel(root.String(), p.Dir())
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	t, err := time.Parse(FolderLayout, rel)
	return err == nil && FolderFor(t) == rel
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
