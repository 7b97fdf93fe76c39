package mg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// MediaFile is a candidate file under consideration: where it lives, what the
// filesystem says about it and the metadata snapshot taken from it. The
// content hash is computed on first request only.
type MediaFile struct {
	Path  *Path
	Type  string
	Size  int64
	Ctime time.Time
	Meta  *Metadata

	hash string
}

// NewMediaFile combines a resolved path, its stat data and a metadata snapshot.
func NewMediaFile(path *Path, stat *StatData, meta *Metadata) *MediaFile {
	f := &MediaFile{
		Path: path,
		Type: TypeOf(path.Name()),
		Meta: meta,
	}
	if info := path.Info(); info != nil {
		f.Size = info.Size()
	}
	if stat != nil {
		f.Ctime = stat.Ctime
	}
	return f
}

// TypeOf returns the uppercase extension of name without the dot.
func TypeOf(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}

// CaptureTime returns the derived capture timestamp.
func (f *MediaFile) CaptureTime() time.Time {
	return f.Meta.CaptureTime
}

// HasHash reports whether the content hash was already computed.
func (f *MediaFile) HasHash() bool { return f.hash != "" }

// Hash returns the SHA-256 of the file content, reading it through fsmgr the
// first time it is asked for.
func (f *MediaFile) Hash(fsmgr FilesystemManager) (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	rc, err := fsmgr.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrFilesystemAccess, f.Path, err)
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrFilesystemAccess, f.Path, err)
	}
	f.hash = hex.EncodeToString(h.Sum(nil))
	return f.hash, nil
}
