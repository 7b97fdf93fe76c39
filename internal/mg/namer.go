package mg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts for the date-structured target tree.
const (
	FolderLayout   = "2006/2006-01/2006-01-02"
	BaseNameLayout = "2006-01-02 15.04.05"
)

// FolderFor returns the relative folder for a capture time, always with
// forward slashes: YYYY/YYYY-MM/YYYY-MM-DD.
func FolderFor(t time.Time) string {
	return t.Format(FolderLayout)
}

// BaseNameFor returns "YYYY-MM-DD HH.MM.SS".
func BaseNameFor(t time.Time) string {
	return t.Format(BaseNameLayout)
}

// FilenameFor returns the canonical filename for a capture time and type.
func FilenameFor(t time.Time, fileType string) string {
	return BaseNameFor(t) + "." + strings.ToLower(fileType)
}

// SuffixedName inserts a -n disambiguation suffix before the extension.
func SuffixedName(base, ext string, n int) string {
	return fmt.Sprintf("%s-%d.%s", base, n, ext)
}

// InFamily reports whether filename is base.ext or base-N.ext for some N >= 1.
func InFamily(filename, base, ext string) bool {
	if filename == base+"."+ext {
		return true
	}
	rest, ok := strings.CutPrefix(filename, base+"-")
	if !ok {
		return false
	}
	digits, ok := strings.CutSuffix(rest, "."+ext)
	if !ok || digits == "" {
		return false
	}
	n, err := strconv.Atoi(digits)
	return err == nil && n >= 1 && strconv.Itoa(n) == digits
}

// Namer assigns collision-free target filenames by consulting the index.
type Namer struct {
	index Index
}

func NewNamer(index Index) *Namer {
	return &Namer{index: index}
}

// Deduplicate returns filename if it is free in targetPath, otherwise the
// first free base-N.ext with N counting up from 1. N is unbounded.
func (n *Namer) Deduplicate(targetPath, filename string) (string, error) {
	return n.DeduplicateAvoiding(targetPath, filename, nil)
}

// DeduplicateAvoiding is Deduplicate where a name must also not be reported
// by occupied. A nil occupied consults the index only.
func (n *Namer) DeduplicateAvoiding(targetPath, filename string, occupied func(name string) (bool, error)) (string, error) {
	candidate := filename
	base, ext := splitName(filename)
	for i := 1; ; i++ {
		taken, err := n.index.TargetFilenameExists(targetPath, candidate)
		if err != nil {
			return "", fmt.Errorf("checking target name %s: %w", candidate, err)
		}
		if !taken && occupied != nil {
			if taken, err = occupied(candidate); err != nil {
				return "", fmt.Errorf("checking target name %s: %w", candidate, err)
			}
		}
		if !taken {
			return candidate, nil
		}
		candidate = SuffixedName(base, ext, i)
	}
}

func splitName(filename string) (base, ext string) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return filename, ""
	}
	return filename[:i], filename[i+1:]
}
