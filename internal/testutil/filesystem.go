package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mediagrabber/internal/mg"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
	// Stat data - set once when file is created
	Ctime time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths are
// absolute and stored as given.
type MockFilesystemManager struct {
	files map[string]*MockFile
	opens int
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	now := time.Now()
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     now,
		Ctime:       now,
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	now := time.Now()
	m.files[path] = &MockFile{
		Permissions: 0755,
		ModTime:     now,
		IsDirectory: true,
		Ctime:       now,
	}
}

// Exists reports whether path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

// Opens returns how many times file content was read.
func (m *MockFilesystemManager) Opens() int { return m.opens }

func (m *MockFilesystemManager) Resolve(rawPath string) (*mg.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}
	return mg.NewPath(absPath, file.IsDirectory, m.info(absPath, file)), nil
}

func (m *MockFilesystemManager) Open(path *mg.Path) (io.ReadCloser, error) {
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path.String())
	}
	m.opens++
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) ExtractStatData(info fs.FileInfo) (*mg.StatData, error) {
	// Get the MockFile from Sys() to return consistent stat data
	mockFile, ok := info.Sys().(*MockFile)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *MockFile, got %T", info.Sys())
	}

	return &mg.StatData{
		Mtime: mockFile.ModTime,
		Ctime: mockFile.Ctime,
	}, nil
}

// FindMediaFiles lists every file below root in lexical order. The mock
// applies no extension or ignore filtering.
func (m *MockFilesystemManager) FindMediaFiles(root *mg.Path) ([]*mg.Path, error) {
	prefix := root.String() + string(filepath.Separator)
	var names []string
	for p, f := range m.files {
		if !f.IsDirectory && strings.HasPrefix(p, prefix) {
			names = append(names, p)
		}
	}
	sort.Strings(names)

	paths := make([]*mg.Path, 0, len(names))
	for _, p := range names {
		paths = append(paths, mg.NewPath(p, false, m.info(p, m.files[p])))
	}
	return paths, nil
}

// RemoveEmptyParents drops directory entries that have no children left.
func (m *MockFilesystemManager) RemoveEmptyParents(dir, stopAt string) error {
	for d := dir; d != stopAt && strings.HasPrefix(d, stopAt+string(filepath.Separator)); d = filepath.Dir(d) {
		for p := range m.files {
			if strings.HasPrefix(p, d+string(filepath.Separator)) {
				return nil
			}
		}
		delete(m.files, d)
	}
	return nil
}

func (m *MockFilesystemManager) info(path string, file *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:     filepath.Base(path),
		size:     int64(len(file.Content)),
		mode:     file.Permissions,
		modTime:  file.ModTime,
		isDir:    file.IsDirectory,
		mockFile: file,
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile // reference to get stat data
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ mg.FilesystemManager = (*MockFilesystemManager)(nil)
