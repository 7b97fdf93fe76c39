package testutil

import (
	"fmt"
	"sync"
	"time"

	"mediagrabber/internal/mg"
)

// StubExtractor serves capture times from a table keyed by file name. Names
// not in the table are parsed as archive names ("2020-05-01 10.00.00.jpg").
type StubExtractor struct {
	mu     sync.Mutex
	times  map[string]time.Time
	calls  int
	opened int
	closed int
}

func NewStubExtractor() *StubExtractor {
	return &StubExtractor{times: make(map[string]time.Time)}
}

// Set assigns the capture time reported for files called name.
func (s *StubExtractor) Set(name string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times[name] = t
}

func (s *StubExtractor) Extract(path *mg.Path) (*mg.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if t, ok := s.times[path.Name()]; ok {
		return &mg.Metadata{CaptureTime: t}, nil
	}
	name := path.Name()
	if len(name) >= len(mg.BaseNameLayout) {
		if t, err := time.ParseInLocation(mg.BaseNameLayout, name[:len(mg.BaseNameLayout)], time.UTC); err == nil {
			return &mg.Metadata{CaptureTime: t}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", mg.ErrMetadataIncomplete, name)
}

func (s *StubExtractor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Factory returns an mg.ExtractorFactory handing out this extractor.
func (s *StubExtractor) Factory() mg.ExtractorFactory {
	return func() (mg.MetadataExtractor, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.opened++
		return s, nil
	}
}

// Calls returns how many files were extracted.
func (s *StubExtractor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Balanced reports whether every acquired extractor was closed.
func (s *StubExtractor) Balanced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened == s.closed
}

var _ mg.MetadataExtractor = (*StubExtractor)(nil)
