package skills

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Count is one skill's tally.
type Count struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Registry holds the known skill tokens and how many postings mentioned
// each. It is scoped to one pipeline run.
type Registry struct {
	mu     sync.Mutex
	order  []string
	counts map[string]int
}

// NewRegistry lower-cases tokens and drops blanks and repeats, keeping the
// first-seen order.
func NewRegistry(tokens []string) *Registry {
	r := &Registry{counts: map[string]int{}}
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := r.counts[t]; dup {
			continue
		}
		r.counts[t] = 0
		r.order = append(r.order, t)
	}
	return r
}

// LoadCSV reads the first column of every row in path.
func LoadCSV(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skills list: %w", err)
	}
	defer f.Close()

	tokens, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read skills list %s: %w", path, err)
	}
	return NewRegistry(tokens), nil
}

func ReadCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		tok := rec[0]
		if len(out) == 0 {
			tok = strings.TrimPrefix(tok, "\ufeff")
		}
		out = append(out, tok)
	}
	return out, nil
}

func (r *Registry) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) Increment(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.counts[token]; ok {
		r.counts[token]++
	}
}

func (r *Registry) Count(token string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[token]
}

// Counts returns every tally in registry order, zeros included.
func (r *Registry) Counts() []Count {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Count, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, Count{Skill: t, Count: r.counts[t]})
	}
	return out
}

// Ranked drops zero tallies and sorts the rest by count, highest first.
// Ties keep their input order.
func Ranked(counts []Count) []Count {
	out := make([]Count, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
