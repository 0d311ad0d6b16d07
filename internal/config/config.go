package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Selectors struct {
	Card        string `yaml:"card"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
}

type Config struct {
	Listing struct {
		BaseURL string `yaml:"base_url"`
		// SiteURL prefixes relative detail links; derived from BaseURL when empty.
		SiteURL   string `yaml:"site_url"`
		Query     string `yaml:"query"`
		Location  string `yaml:"location"`
		PageSize  int    `yaml:"page_size"`
		MaxOffset int    `yaml:"max_offset"`
		TTLDays   int    `yaml:"ttl_days"`
	} `yaml:"listing"`

	Detail struct {
		TTLDays int `yaml:"ttl_days"`
	} `yaml:"detail"`

	Geocode struct {
		BaseURL        string `yaml:"base_url"`
		Username       string `yaml:"username"`
		KeyringAccount string `yaml:"keyring_account"`
		Country        string `yaml:"country"`
		MaxRows        int    `yaml:"max_rows"`
		TTLDays        int    `yaml:"ttl_days"`
	} `yaml:"geocode"`

	Filters struct {
		ExcludeTitles []string `yaml:"exclude_titles"`
	} `yaml:"filters"`

	Skills struct {
		File          string   `yaml:"file"`
		WordBoundary  []string `yaml:"word_boundary"`
		ReportTTLDays int      `yaml:"report_ttl_days"`
	} `yaml:"skills"`

	Selectors Selectors `yaml:"selectors"`

	HTTP struct {
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             int           `yaml:"burst"`
		Retries           int           `yaml:"retries"`
		RetryDelay        time.Duration `yaml:"retry_delay"`
		Workers           int           `yaml:"workers"`
		UserAgent         string        `yaml:"user_agent"`
	} `yaml:"http"`

	Cache struct {
		Dir     string `yaml:"dir"`
		Listing string `yaml:"listing"`
		Detail  string `yaml:"detail"`
		Geo     string `yaml:"geo"`
		Skills  string `yaml:"skills"`
	} `yaml:"cache"`

	Store struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"store"`
}

// Default reproduces the stock data-intern search.
func Default() Config {
	var c Config

	c.Listing.BaseURL = "https://www.indeed.com/jobs"
	c.Listing.Query = "data intern"
	c.Listing.Location = "United States"
	c.Listing.PageSize = 10
	c.Listing.MaxOffset = 100
	c.Listing.TTLDays = 15

	c.Detail.TTLDays = 15

	c.Geocode.BaseURL = "http://api.geonames.org/postalCodeSearchJSON"
	c.Geocode.KeyringAccount = "jobharvest:geonames"
	c.Geocode.Country = "us"
	c.Geocode.MaxRows = 1
	c.Geocode.TTLDays = 100

	c.Filters.ExcludeTitles = []string{"software engineer"}

	c.Skills.File = "skills.csv"
	c.Skills.WordBoundary = []string{"sas", "go"}
	c.Skills.ReportTTLDays = 15

	c.Selectors = Selectors{
		Card:        "div.jobsearch-SerpJobCard",
		Title:       "a[data-tn-element=jobTitle]",
		Company:     "span.company",
		Location:    ".location",
		Description: "div.jobsearch-JobComponent-description",
	}

	c.HTTP.Timeout = 20 * time.Second
	c.HTTP.RequestsPerSecond = 1
	c.HTTP.Burst = 2
	c.HTTP.Retries = 0
	c.HTTP.RetryDelay = 2 * time.Second
	c.HTTP.Workers = 1
	c.HTTP.UserAgent = "jobharvest/1.0"

	c.Cache.Dir = "cache"
	c.Cache.Listing = "job_postings.json"
	c.Cache.Detail = "detail_pages.json"
	c.Cache.Geo = "geo_info.json"
	c.Cache.Skills = "skillset_dict.json"

	c.Store.Driver = "sqlite"
	c.Store.DSN = "jobs.db"
	return c
}

// LoadEnv reads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads path over Default(), expanding ${VAR} references first, then
// normalizes and validates. Warnings are returned alongside a usable config.
func Load(path string) (Config, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, []string, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(b))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parse config: %w", err)
	}

	out, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		return Config{}, v.Warnings, errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
	}
	return out, v.Warnings, nil
}
