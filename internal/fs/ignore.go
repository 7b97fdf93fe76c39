package fs

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// DirFilter decides which directories are left out of a scan. Each pattern is
// a regular expression searched for anywhere in the directory's path,
// written with forward slashes.
type DirFilter struct {
	patterns []*regexp.Regexp
}

// NewDirFilter compiles the given patterns. Blank entries are skipped.
func NewDirFilter(rawPatterns []string) (*DirFilter, error) {
	f := &DirFilter{}
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", raw, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Match reports whether dir should be ignored.
func (f *DirFilter) Match(dir string) bool {
	normalized := filepath.ToSlash(dir)
	for _, re := range f.patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}
