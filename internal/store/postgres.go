package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobharvest/internal/domain"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS data_jobs (
  job_title TEXT PRIMARY KEY,
  company_name TEXT NOT NULL DEFAULT '',
  city TEXT,
  state TEXT,
  latitude DOUBLE PRECISION,
  longitude DOUBLE PRECISION,
  url TEXT NOT NULL DEFAULT '',
  skills TEXT NOT NULL DEFAULT '[]'
);`

const pgInsert = `
INSERT INTO data_jobs(job_title, company_name, city, state, latitude, longitude, url, skills)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (job_title) DO NOTHING`

type PostgresSink struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresSink, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// InsertJobs sends every insert in one batch inside a transaction.
func (s *PostgresSink) InsertJobs(ctx context.Context, jobs []domain.NormalizedJob) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(pgInsert,
			j.Title,
			j.Company,
			nullIfEmpty(j.City),
			nullIfEmpty(j.State),
			floatOrNil(j.Latitude),
			floatOrNil(j.Longitude),
			j.URL,
			encodeSkills(j.Skills),
		)
	}

	br := tx.SendBatch(ctx, batch)
	added := 0
	for _, j := range jobs {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("insert %q: %w", j.Title, err)
		}
		added += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *PostgresSink) MissingCoordinates(ctx context.Context) ([]domain.NormalizedJob, error) {
	return s.query(ctx, `
SELECT job_title, company_name, city, state, latitude, longitude, url, skills
FROM data_jobs
WHERE city IS NOT NULL AND city <> '' AND latitude IS NULL
ORDER BY job_title`)
}

func (s *PostgresSink) SetCoordinates(ctx context.Context, title string, lat, lng float64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
UPDATE data_jobs
SET latitude = $1, longitude = $2
WHERE job_title = $3
  AND latitude IS NULL`, lat, lng, title)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresSink) ListJobs(ctx context.Context, opts ListJobsOpts) ([]domain.NormalizedJob, error) {
	q := `
SELECT job_title, company_name, city, state, latitude, longitude, url, skills
FROM data_jobs`
	if opts.WithCoordinates {
		q += "\nWHERE latitude IS NOT NULL AND longitude IS NOT NULL"
	}
	q += "\nORDER BY job_title"
	if opts.Limit > 0 {
		q += fmt.Sprintf("\nLIMIT %d", opts.Limit)
	}
	return s.query(ctx, q)
}

func (s *PostgresSink) query(ctx context.Context, q string, args ...any) ([]domain.NormalizedJob, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NormalizedJob
	for rows.Next() {
		var (
			j           domain.NormalizedJob
			city, state *string
			skills      string
		)
		if err := rows.Scan(&j.Title, &j.Company, &city, &state, &j.Latitude, &j.Longitude, &j.URL, &skills); err != nil {
			return nil, err
		}
		if city != nil {
			j.City = *city
		}
		if state != nil {
			j.State = *state
		}
		j.Skills = decodeSkills(skills)
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *PostgresSink) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
