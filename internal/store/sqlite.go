package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"jobharvest/internal/domain"
)

type SQLiteSink struct {
	Pool *sql.DB
}

func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}

	if err := Migrate(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteSink{Pool: pool}, nil
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS data_jobs (
  job_title TEXT PRIMARY KEY,
  company_name TEXT NOT NULL DEFAULT '',
  city TEXT,
  state TEXT,
  latitude REAL,
  longitude REAL,
  url TEXT NOT NULL DEFAULT '',
  skills TEXT NOT NULL DEFAULT '[]'
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertJobs writes all jobs in one transaction; either every new row lands
// or none do.
func (s *SQLiteSink) InsertJobs(ctx context.Context, jobs []domain.NormalizedJob) (int, error) {
	tx, err := s.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO data_jobs(job_title, company_name, city, state, latitude, longitude, url, skills)
VALUES(?,?,?,?,?,?,?,?)
ON CONFLICT(job_title) DO NOTHING;`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, j := range jobs {
		res, err := stmt.ExecContext(ctx,
			j.Title,
			j.Company,
			nullIfEmpty(j.City),
			nullIfEmpty(j.State),
			floatOrNil(j.Latitude),
			floatOrNil(j.Longitude),
			j.URL,
			encodeSkills(j.Skills),
		)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", j.Title, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *SQLiteSink) MissingCoordinates(ctx context.Context) ([]domain.NormalizedJob, error) {
	return s.query(ctx, `
SELECT job_title, company_name, city, state, latitude, longitude, url, skills
FROM data_jobs
WHERE city IS NOT NULL AND city != '' AND latitude IS NULL
ORDER BY job_title;`)
}

func (s *SQLiteSink) SetCoordinates(ctx context.Context, title string, lat, lng float64) (bool, error) {
	res, err := s.Pool.ExecContext(ctx, `
UPDATE data_jobs
SET latitude = ?, longitude = ?
WHERE job_title = ?
  AND latitude IS NULL;`, lat, lng, title)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteSink) ListJobs(ctx context.Context, opts ListJobsOpts) ([]domain.NormalizedJob, error) {
	where := ""
	if opts.WithCoordinates {
		where = "WHERE latitude IS NOT NULL AND longitude IS NOT NULL"
	}
	limit := ""
	if opts.Limit > 0 {
		limit = fmt.Sprintf("LIMIT %d", opts.Limit)
	}
	return s.query(ctx, fmt.Sprintf(`
SELECT job_title, company_name, city, state, latitude, longitude, url, skills
FROM data_jobs
%s
ORDER BY job_title
%s;`, where, limit))
}

func (s *SQLiteSink) query(ctx context.Context, q string, args ...any) ([]domain.NormalizedJob, error) {
	rows, err := s.Pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NormalizedJob
	for rows.Next() {
		var (
			j           domain.NormalizedJob
			city, state sql.NullString
			lat, lng    sql.NullFloat64
			skills      string
		)
		if err := rows.Scan(&j.Title, &j.Company, &city, &state, &lat, &lng, &j.URL, &skills); err != nil {
			return nil, err
		}
		j.City = city.String
		j.State = state.String
		if lat.Valid {
			v := lat.Float64
			j.Latitude = &v
		}
		if lng.Valid {
			v := lng.Float64
			j.Longitude = &v
		}
		j.Skills = decodeSkills(skills)
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}
