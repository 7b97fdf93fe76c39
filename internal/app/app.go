package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mediagrabber/internal/config"
	"mediagrabber/internal/database"
	"mediagrabber/internal/database/sqlc"
	"mediagrabber/internal/fs"
	"mediagrabber/internal/metadata"
	"mediagrabber/internal/mg"
	"mediagrabber/internal/target"
)

// Options are the per-invocation switches that do not live in the config file.
type Options struct {
	DryRun bool
	Quiet  bool
	Debug  bool
	// Console receives log output; defaults to stderr.
	Console io.Writer
}

// readOnlyModes never create or migrate the index.
var readOnlyModes = map[string]bool{
	"history": true,
	"tree":    true,
}

// MGApp is the application layer between the CLI and MGService.
// It constructs all dependencies from config, exposes the archive modes with
// raw string paths, and records the run and closes the index on Close.
type MGApp struct {
	cfg     *config.Config
	opts    Options
	index   mg.Index
	fsmgr   *fs.OSFilesystemManager
	target  *target.FileSystemTarget
	service *mg.MGService
	logger  *slog.Logger
	run     *Run
	logFile *os.File
}

// NewMGApp creates a fully wired MGApp from the given config.
// mode identifies the CLI command being run (e.g. "import", "index").
// The caller must call Close when done.
func NewMGApp(cfg *config.Config, mode string, opts Options) (*MGApp, error) {
	if cfg.Archive.Target == "" {
		return nil, fmt.Errorf("%w: no target directory configured", mg.ErrConfiguration)
	}

	filter, err := fs.NewDirFilter(cfg.Archive.Ignore)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mg.ErrConfiguration, err)
	}
	fsmgr := fs.NewOSFilesystemManager(cfg.Archive.Extensions, filter)

	tgt, err := target.NewFileSystemTarget(cfg.Archive.Target)
	if err != nil {
		return nil, err
	}

	extractors, err := metadata.NewExtractorFactory(cfg.Metadata)
	if err != nil {
		return nil, err
	}

	openIndex := database.NewIndexFromConfig
	if readOnlyModes[mode] {
		openIndex = database.OpenIndexFromConfig
	}
	index, err := openIndex(cfg.Database, tgt.Root(), mg.RealClock{})
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	index.SetSimulate(opts.DryRun)

	runID := mg.UUIDGenerator{}.New()
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	logger, logFile, err := newLogger(cfg.LogDir, runID, console, opts)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := mg.NewMGService(index, fsmgr, tgt, extractors, &slogAdapter{l: logger}, mg.RealClock{}, opts.DryRun)

	return &MGApp{
		cfg:     cfg,
		opts:    opts,
		index:   index,
		fsmgr:   fsmgr,
		target:  tgt,
		service: svc,
		logger:  logger,
		run:     NewRun(runID, mode),
		logFile: logFile,
	}, nil
}

// RunID returns the identifier of this invocation.
func (a *MGApp) RunID() string { return a.run.RunID }

// Target returns the absolute target directory.
func (a *MGApp) Target() string { return a.target.Root() }

// startRun logs the run parameters and persists the run record. Dry runs are
// never recorded.
func (a *MGApp) startRun(params ...any) error {
	a.logger.Info("run started", append([]any{
		"mode", a.run.Mode,
		"target", a.target.Root(),
		"dry_run", a.opts.DryRun,
		"quiet", a.opts.Quiet,
	}, params...)...)

	var b strings.Builder
	for i := 0; i+1 < len(params); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v=%v", params[i], params[i+1])
	}
	a.run.Parameters = b.String()

	if a.opts.DryRun || a.run.Persisted() {
		return nil
	}
	r, err := a.index.CreateRun(a.run.RunID, a.run.Mode, a.run.Parameters)
	if err != nil {
		return fmt.Errorf("persisting run: %w", err)
	}
	a.run.ID = r.ID
	return nil
}

// Import resolves the raw source directories and imports them. Sources that
// cannot be resolved or are not directories are logged and left out; having
// none left is a configuration error.
func (a *MGApp) Import(rawSources []string, move bool) (*mg.Stats, error) {
	if err := a.startRun(
		"sources", strings.Join(rawSources, ","),
		"extensions", strings.Join(a.cfg.Archive.Extensions, ","),
		"ignore", strings.Join(a.cfg.Archive.Ignore, ","),
		"move", move,
	); err != nil {
		return nil, err
	}

	var sources []*mg.Path
	for _, raw := range rawSources {
		p, err := a.fsmgr.Resolve(raw)
		if err != nil {
			a.logger.Warn("source not accessible, skipped", "source", raw, "error", err)
			continue
		}
		if !p.IsDir() {
			a.logger.Warn("source is not a directory, skipped", "source", raw)
			continue
		}
		sources = append(sources, p)
	}

	stats, err := a.service.Import(sources, move)
	a.finish(stats, err)
	return stats, err
}

// RebuildIndex reconciles the index with the target tree.
func (a *MGApp) RebuildIndex() (*mg.Stats, error) {
	if err := a.startRun(
		"extensions", strings.Join(a.cfg.Archive.Extensions, ","),
		"ignore", strings.Join(a.cfg.Archive.Ignore, ","),
	); err != nil {
		return nil, err
	}
	stats, err := a.service.RebuildIndex()
	a.finish(stats, err)
	return stats, err
}

// Reset drops source records, and with all set every file record too.
func (a *MGApp) Reset(all bool) (*mg.Stats, error) {
	if err := a.startRun("all", all); err != nil {
		return nil, err
	}
	stats, err := a.service.Reset(all)
	a.finish(stats, err)
	return stats, err
}

// History returns the most recent runs.
func (a *MGApp) History(limit int) ([]*sqlc.Run, error) {
	return a.service.History(limit)
}

func (a *MGApp) finish(stats *mg.Stats, err error) {
	a.run.Fail(err)
	if err != nil {
		a.logger.Error("run failed", "mode", a.run.Mode, "error", err)
	}
	if stats == nil {
		return
	}
	a.logger.Info("run finished",
		"mode", stats.Mode,
		"processed", stats.Processed,
		"added", stats.Added,
		"sources_added", stats.SourcesAdded,
		"duplicates", stats.Duplicates,
		"collisions", stats.Collisions,
		"skipped", stats.Skipped,
		"conflicts", stats.Conflicts,
		"errors", stats.Errors,
		"validated", stats.Validated,
		"removed", stats.RecordsRemoved,
		"duration", stats.Duration(),
	)
}

// Close finalizes the run record and closes all resources.
func (a *MGApp) Close() error {
	var errs []error

	if a.run.Persisted() {
		if err := a.index.FinishRun(a.run.ID, a.run.Status); err != nil {
			errs = append(errs, fmt.Errorf("finishing run: %w", err))
		}
	}

	if err := a.index.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing index: %w", err))
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}
