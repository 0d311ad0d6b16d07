package store

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"jobharvest/internal/domain"
)

// Geocoder resolves a place name. Absent coordinates come back as nil.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (lat, lng *float64)
}

// Persist geocodes every job that has a city and then inserts the batch.
// Geocoding is deferred to here so it runs once over the deduplicated set.
func Persist(ctx context.Context, sink Sink, geo Geocoder, jobs []domain.NormalizedJob, workers int, logger *slog.Logger) (int, error) {
	if workers <= 0 {
		workers = 1
	}

	out := make([]domain.NormalizedJob, len(jobs))
	copy(out, jobs)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range out {
		if out[i].City == "" || out[i].HasCoordinates() {
			continue
		}
		g.Go(func() error {
			lat, lng := geo.Lookup(ctx, out[i].City)
			out[i].Latitude, out[i].Longitude = lat, lng
			if lat == nil {
				logger.Debug("no coordinates", "title", out[i].Title, "city", out[i].City)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	added, err := sink.InsertJobs(ctx, out)
	if err != nil {
		return 0, fmt.Errorf("persist jobs: %w", err)
	}
	logger.Info("jobs persisted", "jobs", len(out), "added", added, "skipped_existing", len(out)-added)
	return added, nil
}

// Backfill geocodes stored rows that still lack coordinates. It only ever
// fills NULL coordinate columns.
func Backfill(ctx context.Context, sink Sink, geo Geocoder, logger *slog.Logger) (filled, unresolved int, err error) {
	rows, err := sink.MissingCoordinates(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list rows without coordinates: %w", err)
	}

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return filled, unresolved, err
		}
		lat, lng := geo.Lookup(ctx, r.City)
		if lat == nil || lng == nil {
			unresolved++
			continue
		}
		ok, err := sink.SetCoordinates(ctx, r.Title, *lat, *lng)
		if err != nil {
			return filled, unresolved, fmt.Errorf("update %q: %w", r.Title, err)
		}
		if ok {
			filled++
		}
	}

	logger.Info("coordinate backfill done", "candidates", len(rows), "filled", filled, "unresolved", unresolved)
	return filled, unresolved, nil
}
