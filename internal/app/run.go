package app

// Run tracks one CLI invocation that mutates the index.
// Runs are created in memory with ID=0. Only non-dry-run mode commands
// persist them (giving them an auto-increment ID from the database).
type Run struct {
	ID         int64
	RunID      string
	Mode       string
	Parameters string
	Status     string // "success" or "error"
}

// NewRun creates a new in-memory run.
func NewRun(runID, mode string) *Run {
	return &Run{
		RunID:  runID,
		Mode:   mode,
		Status: "success",
	}
}

// Persisted returns true if this run has been saved to the database.
func (r *Run) Persisted() bool {
	return r.ID != 0
}

// Fail marks the run as failed when err is non-nil.
func (r *Run) Fail(err error) {
	if err != nil {
		r.Status = "error"
	}
}
