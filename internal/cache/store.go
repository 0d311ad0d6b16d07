package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry[V any] struct {
	Values       V         `json:"values"`
	Timestamp    Timestamp `json:"timestamp"`
	ExpireInDays int       `json:"expire_in_days"`
}

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*options)

// WithClock replaces time.Now for entry timestamps and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Store is an identifier -> value map persisted as a single JSON document.
// Every mutation rewrites the whole file. Identifiers are upper-cased before
// use, so lookups are case-insensitive.
type Store[V any] struct {
	path   string
	lock   *flock.Flock
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry[V]
}

// Open loads the store at path. A missing or unreadable file yields an empty
// store; Open itself never fails.
func Open[V any](path string, opts ...Option) *Store[V] {
	o := options{now: time.Now, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, fn := range opts {
		fn(&o)
	}

	s := &Store[V]{
		path:    path,
		lock:    flock.New(path + ".lock"),
		now:     o.now,
		logger:  o.logger.With("cache", filepath.Base(path)),
		entries: map[string]entry[V]{},
	}
	s.load()
	return s
}

func (s *Store[V]) Path() string { return s.path }

func (s *Store[V]) load() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("cache dir unavailable, starting empty", "error", err)
		return
	}
	if err := s.lock.RLock(); err == nil {
		defer s.lock.Unlock()
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("cache unreadable, starting empty", "error", err)
		}
		return
	}

	m := map[string]entry[V]{}
	if err := json.Unmarshal(b, &m); err != nil {
		s.logger.Warn("cache corrupt, starting empty", "error", err)
		return
	}
	s.entries = m
	s.logger.Debug("cache loaded", "entries", len(m))
}

// Get returns the value for id. An expired entry is deleted, the deletion is
// written through, and Get reports a miss.
func (s *Store[V]) Get(id string) (V, bool) {
	var zero V
	key := NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		delete(s.entries, key)
		if err := s.flush(); err != nil {
			s.logger.Warn("cache flush after expiry failed", "id", key, "error", err)
		}
		s.logger.Debug("cache entry expired", "id", key)
		return zero, false
	}
	return e.Values, true
}

// Set stores v under id, replacing any prior entry, and rewrites the file.
func (s *Store[V]) Set(id string, v V, ttlDays int) error {
	key := NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[V]{
		Values:       v,
		Timestamp:    Timestamp(s.now()),
		ExpireInDays: ttlDays,
	}
	return s.flush()
}

// Prune drops every expired entry in one rewrite and returns how many went.
func (s *Store[V]) Prune() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.flush()
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns the stored identifiers in sorted order, expired ones included.
func (s *Store[V]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store[V]) expired(e entry[V]) bool {
	return ElapsedDays(time.Time(e.Timestamp), s.now()) > e.ExpireInDays
}

// flush must be called with s.mu held.
func (s *Store[V]) flush() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.entries); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer s.lock.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// ElapsedDays is the number of whole days between created and now,
// truncated toward zero.
func ElapsedDays(created, now time.Time) int {
	return int(now.Sub(created) / (24 * time.Hour))
}

// NormalizeID is the case-folded form identifiers are stored under.
func NormalizeID(id string) string {
	// a Caser is stateful, so one per call
	return cases.Upper(language.Und).String(id)
}
