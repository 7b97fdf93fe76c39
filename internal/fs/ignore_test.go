package fs

import (
	"path/filepath"
	"testing"
)

func TestNewDirFilter(t *testing.T) {
	t.Run("skips blank patterns", func(t *testing.T) {
		t.Parallel()
		f, err := NewDirFilter([]string{"", "  ", "@eaDir"})
		if err != nil {
			t.Fatalf("NewDirFilter() error = %v", err)
		}
		if len(f.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(f.patterns))
		}
	})

	t.Run("rejects invalid regex", func(t *testing.T) {
		t.Parallel()
		if _, err := NewDirFilter([]string{"(unclosed"}); err == nil {
			t.Fatal("expected error for invalid pattern")
		}
	})
}

func TestDirFilter_Match(t *testing.T) {
	defaults := []string{"@eaDir", `\.svn`, "__"}

	tests := []struct {
		name     string
		patterns []string
		dir      string
		want     bool
	}{
		{
			name:     "synology thumbnail dir",
			patterns: defaults,
			dir:      filepath.Join("/photos", "2019", "@eaDir"),
			want:     true,
		},
		{
			name:     "pattern matches an ancestor component",
			patterns: defaults,
			dir:      filepath.Join("/photos", "@eaDir", "thumbs"),
			want:     true,
		},
		{
			name:     "escaped dot does not match other characters",
			patterns: defaults,
			dir:      filepath.Join("/photos", "xsvn"),
			want:     false,
		},
		{
			name:     "svn dir",
			patterns: defaults,
			dir:      filepath.Join("/photos", ".svn"),
			want:     true,
		},
		{
			name:     "double underscore anywhere in the path",
			patterns: defaults,
			dir:      filepath.Join("/photos", "__MACOSX"),
			want:     true,
		},
		{
			name:     "ordinary dir",
			patterns: defaults,
			dir:      filepath.Join("/photos", "2019", "holiday"),
			want:     false,
		},
		{
			name:     "anchored pattern",
			patterns: []string{"^tmp$"},
			dir:      "tmp",
			want:     true,
		},
		{
			name:     "no patterns matches nothing",
			patterns: nil,
			dir:      "/anything",
			want:     false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := NewDirFilter(tt.patterns)
			if err != nil {
				t.Fatalf("NewDirFilter() error = %v", err)
			}
			if got := f.Match(tt.dir); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}
