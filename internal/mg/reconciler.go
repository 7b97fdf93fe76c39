package mg

import "fmt"

// ValidationResult summarises one reconciliation pass.
// Checked counts every record examined, Removed the records purged because
// their target file was gone, Errors the records whose check failed.
type ValidationResult struct {
	Checked int
	Removed int
	Errors  int
}

// Reconciler purges index records whose physical target file has disappeared.
type Reconciler struct {
	index  Index
	target TargetTree
	logger Logger
}

func NewReconciler(index Index, target TargetTree, logger Logger) *Reconciler {
	return &Reconciler{index: index, target: target, logger: logger}
}

// Validate walks the index oldest first. A record whose file is missing is
// deleted together with its sources. Access errors are logged and the record
// is left alone; only failing to list the index aborts the pass.
func (r *Reconciler) Validate() (*ValidationResult, error) {
	files, err := r.index.ListAllFiles()
	if err != nil {
		return nil, fmt.Errorf("listing indexed files: %w", err)
	}

	res := &ValidationResult{}
	for _, f := range files {
		res.Checked++

		exists, err := r.target.Exists(f.TargetPath, f.TargetFilename)
		if err != nil {
			r.logger.Error("checking target file", "id", f.ID, "path", r.target.Locate(f.TargetPath, f.TargetFilename), "error", err)
			res.Errors++
			continue
		}
		if exists {
			continue
		}

		if err := r.index.DeleteFile(f.ID); err != nil {
			r.logger.Error("removing index record", "id", f.ID, "error", err)
			res.Errors++
			continue
		}
		r.logger.Info("target file missing, record removed", "id", f.ID, "target_path", f.TargetPath, "target_filename", f.TargetFilename)
		res.Removed++
	}

	r.logger.Info("index validated", "checked", res.Checked, "removed", res.Removed, "errors", res.Errors)
	return res, nil
}
