package target

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediagrabber/internal/mg"
)

// FileSystemTarget is the date-structured archive directory on local disk:
//
//	<root>/
//	  .mediagrabber.db
//	  YYYY/
//	    YYYY-MM/
//	      YYYY-MM-DD/
//	        YYYY-MM-DD HH.MM.SS[-N].ext
//
// Record paths are stored with forward slashes and converted on access.
type FileSystemTarget struct {
	root string
}

// NewFileSystemTarget opens the target tree at root. The directory must
// already exist; it is never created here.
func NewFileSystemTarget(root string) (*FileSystemTarget, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving target path: %w", mg.ErrConfiguration, err)
	}
	t := &FileSystemTarget{root: abs}
	if err := t.ValidateSetup(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *FileSystemTarget) Root() string { return t.root }

// Locate returns the absolute path of targetPath/filename.
func (t *FileSystemTarget) Locate(targetPath, filename string) string {
	return filepath.Join(t.root, filepath.FromSlash(targetPath), filename)
}

// Exists reports whether a regular file is present at targetPath/filename.
func (t *FileSystemTarget) Exists(targetPath, filename string) (bool, error) {
	info, err := os.Stat(t.Locate(targetPath, filename))
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", mg.ErrFilesystemAccess, err)
}

// Place copies or moves src to targetPath/filename. An existing file at the
// destination is never overwritten. A move is a rename where possible and a
// copy followed by removal of src otherwise (e.g. across devices). Copies keep
// the source modification time.
func (t *FileSystemTarget) Place(src *mg.Path, targetPath, filename string, move bool) error {
	dest := t.Locate(targetPath, filename)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: creating target directory: %w", mg.ErrFilesystemAccess, err)
	}

	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%w: %s already exists", mg.ErrFilesystemConflict, dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", mg.ErrFilesystemAccess, err)
	}

	if move {
		if err := os.Rename(src.String(), dest); err == nil {
			return nil
		}
	}

	if err := t.copyFile(src.String(), dest); err != nil {
		return fmt.Errorf("%w: %w", mg.ErrFilesystemAccess, err)
	}

	if move {
		if err := os.Remove(src.String()); err != nil {
			return fmt.Errorf("%w: removing source after copy: %w", mg.ErrFilesystemAccess, err)
		}
	}
	return nil
}

// Remove deletes a file inside the target tree.
func (t *FileSystemTarget) Remove(path *mg.Path) error {
	rel, err := filepath.Rel(t.root, path.String())
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to remove %s: outside target %s", path.String(), t.root)
	}
	if err := os.Remove(path.String()); err != nil {
		return fmt.Errorf("%w: %w", mg.ErrFilesystemAccess, err)
	}
	return nil
}

// ValidateSetup verifies that the target root is an accessible directory.
func (t *FileSystemTarget) ValidateSetup() error {
	info, err := os.Stat(t.root)
	if err != nil {
		return fmt.Errorf("%w: target root not accessible: %w", mg.ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: target root is not a directory: %s", mg.ErrConfiguration, t.root)
	}
	return nil
}

// copyFile copies srcPath to destPath using atomic write (temp file + rename).
func (t *FileSystemTarget) copyFile(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, in)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != info.Size() {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", info.Size(), written)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemTarget implements mg.TargetTree interface
var _ mg.TargetTree = (*FileSystemTarget)(nil)
