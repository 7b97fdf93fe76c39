package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// sink is one log destination with its own minimum level.
type sink struct {
	w   io.Writer
	min slog.Level
}

// mgHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
//
// and writes each line to every sink whose level admits it.
type mgHandler struct {
	sinks []sink
	runID string
	attrs []slog.Attr
}

func (h *mgHandler) Enabled(_ context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if level >= s.min {
			return true
		}
	}
	return false
}

func (h *mgHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.runID, r.Message)

	// Write pre-set attrs.
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}

	// Write per-record attrs.
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	line := b.String()
	for _, s := range h.sinks {
		if r.Level < s.min {
			continue
		}
		if _, err := io.WriteString(s.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (h *mgHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mgHandler{
		sinks: h.sinks,
		runID: h.runID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *mgHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to logDir/mediagrabber.log
// and to console. The file gets INFO (DEBUG with opts.Debug), the console
// INFO (WARN with opts.Quiet). It returns the slog.Logger, the open log file
// (for cleanup), and any error.
func newLogger(logDir, runID string, console io.Writer, opts Options) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "mediagrabber.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	fileLevel := slog.LevelInfo
	if opts.Debug {
		fileLevel = slog.LevelDebug
	}
	consoleLevel := slog.LevelInfo
	if opts.Quiet {
		consoleLevel = slog.LevelWarn
	}

	handler := &mgHandler{
		sinks: []sink{{w: f, min: fileLevel}, {w: console, min: consoleLevel}},
		runID: runID,
	}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the mg.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
