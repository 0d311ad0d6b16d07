package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jobharvest/internal/domain"
)

// Sink is where enriched jobs end up. Inserts are insert-or-skip on title:
// a stored title is never overwritten.
type Sink interface {
	InsertJobs(ctx context.Context, jobs []domain.NormalizedJob) (added int, err error)
	// MissingCoordinates lists stored jobs that have a city but no latitude.
	MissingCoordinates(ctx context.Context) ([]domain.NormalizedJob, error)
	// SetCoordinates fills coordinates only where they are still NULL.
	SetCoordinates(ctx context.Context, title string, lat, lng float64) (bool, error)
	ListJobs(ctx context.Context, opts ListJobsOpts) ([]domain.NormalizedJob, error)
	Close() error
}

type ListJobsOpts struct {
	WithCoordinates bool
	Limit           int
}

// Open connects to the configured driver ("sqlite" or "postgres") and makes
// sure the data_jobs table exists.
func Open(ctx context.Context, driver, dsn string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return OpenSQLite(dsn)
	case "postgres", "postgresql", "pgx":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func encodeSkills(skills []string) string {
	if skills == nil {
		skills = []string{}
	}
	b, _ := json.Marshal(skills)
	return string(b)
}

func decodeSkills(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
