package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mediagrabber/internal/database/sqlc"
	"mediagrabber/internal/mg"
)

// newTable returns a table writer to stdout, using box drawing only when
// stdout is a terminal.
func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.SetStyle(table.StyleLight)
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			t.SetAllowedRowLength(width)
		}
	} else {
		t.SetStyle(table.StyleDefault)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
		t.Style().Options.SeparateHeader = false
	}
	return t
}

func printStats(cmd *cobra.Command, s *mg.Stats) {
	t := newTable(cmd)
	t.SetTitle(fmt.Sprintf("%s summary", s.Mode))
	t.AppendHeader(table.Row{"Counter", "Value"})

	t.AppendRow(table.Row{"processed", s.Processed})
	t.AppendRow(table.Row{"added", s.Added})
	if s.Mode == "import" {
		t.AppendRow(table.Row{"sources added", s.SourcesAdded})
	}
	t.AppendRow(table.Row{"duplicates", s.Duplicates})
	t.AppendRow(table.Row{"collisions", s.Collisions})
	t.AppendRow(table.Row{"skipped", s.Skipped})
	t.AppendRow(table.Row{"conflicts", s.Conflicts})
	t.AppendRow(table.Row{"errors", s.Errors})
	// an import into an empty index rebuilds it first
	if s.Validated > 0 || s.Mode == "index" {
		t.AppendRow(table.Row{"validated", s.Validated})
		t.AppendRow(table.Row{"records removed", s.RecordsRemoved})
		t.AppendRow(table.Row{"in place", s.InPlace})
		t.AppendRow(table.Row{"relocated", s.Relocated})
		t.AppendRow(table.Row{"copies removed", s.DuplicatesRemoved})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"duration", s.Duration().Truncate(time.Millisecond)})
	t.AppendRow(table.Row{"per file", s.PerFile().Truncate(time.Microsecond)})
	t.Render()
}

func printHistory(cmd *cobra.Command, runs []*sqlc.Run) {
	t := newTable(cmd)
	t.AppendHeader(table.Row{"#", "Mode", "Started", "Status", "Duration", "Parameters"})
	for _, r := range runs {
		duration := ""
		if r.FinishedAt.Valid {
			duration = r.FinishedAt.Time.Sub(r.StartedAt).Truncate(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			r.ID,
			r.Mode,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			duration,
			r.Parameters,
		})
	}
	t.Render()
}
