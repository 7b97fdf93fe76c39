package mg

import "time"

// Stats aggregates the outcome of one mode run.
type Stats struct {
	Mode string

	Processed    int
	Added        int
	SourcesAdded int
	Duplicates   int
	Collisions   int
	Skipped      int
	Conflicts    int
	Errors       int

	// Rebuild only.
	InPlace           int
	Relocated         int
	DuplicatesRemoved int
	Validated         int
	RecordsRemoved    int

	// Reset only.
	SourcesDropped int64
	FilesDropped   int64

	StartedAt  time.Time
	FinishedAt time.Time
}

func newStats(mode string, now time.Time) *Stats {
	return &Stats{Mode: mode, StartedAt: now}
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// PerFile is the average time spent per processed file.
func (s *Stats) PerFile() time.Duration {
	if s.Processed == 0 {
		return 0
	}
	return s.Duration() / time.Duration(s.Processed)
}
