package store

import (
	"context"

	"jobharvest/internal/domain"
)

// NopSink discards everything. Used for dry runs.
type NopSink struct{}

func NewNopSink() NopSink { return NopSink{} }

func (NopSink) InsertJobs(context.Context, []domain.NormalizedJob) (int, error) { return 0, nil }

func (NopSink) MissingCoordinates(context.Context) ([]domain.NormalizedJob, error) { return nil, nil }

func (NopSink) SetCoordinates(context.Context, string, float64, float64) (bool, error) {
	return false, nil
}

func (NopSink) ListJobs(context.Context, ListJobsOpts) ([]domain.NormalizedJob, error) {
	return nil, nil
}

func (NopSink) Close() error { return nil }
