package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateParses(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "demo")

	cfg, warnings, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	want, v := NormalizeAndValidate(Default())
	require.True(t, v.OK(), v.Errors)
	want.Geocode.Username = "demo"
	assert.Equal(t, want, cfg)

	assert.Equal(t, "https://www.indeed.com", cfg.Listing.SiteURL)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, []string{"software engineer"}, cfg.Filters.ExcludeTitles)
	assert.Equal(t, 100, cfg.Geocode.TTLDays)
}

func TestParseOverridesDefaults(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u@localhost/job_postings")
	doc := `
listing:
  query: analyst intern
  max_offset: 30
filters:
  exclude_titles: ["  Software Engineer ", "software engineer", "", "QA"]
http:
  timeout: 5s
  workers: 4
store:
  driver: Postgres
  dsn: ${PG_DSN}
`
	cfg, _, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "analyst intern", cfg.Listing.Query)
	assert.Equal(t, "United States", cfg.Listing.Location, "unset keys keep defaults")
	assert.Equal(t, 30, cfg.Listing.MaxOffset)
	assert.Equal(t, []string{"software engineer", "qa"}, cfg.Filters.ExcludeTitles)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.HTTP.Workers)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://u@localhost/job_postings", cfg.Store.DSN)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad base url", func(c *Config) { c.Listing.BaseURL = "indeed.com/jobs" }, "listing.base_url"},
		{"page size", func(c *Config) { c.Listing.PageSize = 0 }, "listing.page_size"},
		{"ttl", func(c *Config) { c.Geocode.TTLDays = 0 }, "geocode.ttl_days"},
		{"driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"selector", func(c *Config) { c.Selectors.Card = " " }, "selectors.card"},
		{"workers", func(c *Config) { c.HTTP.Workers = 0 }, "http.workers"},
		{"shared cache file", func(c *Config) { c.Cache.Geo = c.Cache.Detail }, "share the file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			_, v := NormalizeAndValidate(c)
			require.False(t, v.OK())
			assert.Contains(t, strings.Join(v.Errors, "\n"), tt.want)
		})
	}
}

func TestValidationWarnings(t *testing.T) {
	c := Default()
	c.Geocode.KeyringAccount = ""
	c.Filters.ExcludeTitles = nil
	_, v := NormalizeAndValidate(c)
	require.True(t, v.OK())
	joined := strings.Join(v.Warnings, "\n")
	assert.Contains(t, joined, "geocode.username")
	assert.Contains(t, joined, "exclude_titles")
}

func TestParseRejectsInvalid(t *testing.T) {
	_, _, err := Parse([]byte("listing:\n  page_size: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing.page_size")

	_, _, err = Parse([]byte("listing: [unclosed"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("JOBHARVEST_TEST_VAR=from-dotenv\n"), 0o644))
	t.Setenv("JOBHARVEST_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("JOBHARVEST_TEST_VAR"))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), env))
	assert.Equal(t, "from-dotenv", os.Getenv("JOBHARVEST_TEST_VAR"))
}

func TestEnsureUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")

	created, err := EnsureUserConfig(path, false)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	created, err = EnsureUserConfig(path, false)
	require.NoError(t, err)
	assert.False(t, created)
	b, _ := os.ReadFile(path)
	assert.Equal(t, "# mine\n", string(b))

	created, err = EnsureUserConfig(path, true)
	require.NoError(t, err)
	assert.True(t, created)
	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(bak))
}
