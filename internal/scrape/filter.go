package scrape

import (
	"sync"

	"jobharvest/internal/scrape/util"
)

// ShouldEnrich rejects titles that contain any excluded phrase, ignoring case.
func ShouldEnrich(title string, exclude []string) (keep bool, reason string) {
	if hit, ok := util.ContainsAnyFold(title, exclude); ok {
		return false, hit
	}
	return true, ""
}

// seenTitles is the run-wide dedup set.
type seenTitles struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func newSeenTitles() *seenTitles {
	return &seenTitles{m: map[string]struct{}{}}
}

// add records title and reports whether it was new.
func (s *seenTitles) add(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[title]; ok {
		return false
	}
	s.m[title] = struct{}{}
	return true
}

func (s *seenTitles) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
