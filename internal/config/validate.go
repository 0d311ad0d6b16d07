package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.ToLower(strings.TrimSpace(x))
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.ExcludeTitles = trimList(out.Filters.ExcludeTitles)
	out.Skills.WordBoundary = trimList(out.Skills.WordBoundary)
	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))
	out.Geocode.Username = strings.TrimSpace(out.Geocode.Username)
	out.Listing.BaseURL = strings.TrimSpace(out.Listing.BaseURL)

	// ---- listing ----

	base, err := url.Parse(out.Listing.BaseURL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		res.addErr("listing.base_url must be an absolute http(s) URL, got %q", out.Listing.BaseURL)
	} else if strings.TrimSpace(out.Listing.SiteURL) == "" {
		out.Listing.SiteURL = base.Scheme + "://" + base.Host
	}
	if strings.TrimSpace(out.Listing.Query) == "" {
		res.addWarn("listing.query is empty; the search will return unfiltered results.")
	}
	if out.Listing.PageSize <= 0 {
		res.addErr("listing.page_size must be > 0")
	}
	if out.Listing.MaxOffset < 0 {
		res.addErr("listing.max_offset must be >= 0")
	} else if out.Listing.PageSize > 0 && out.Listing.MaxOffset/out.Listing.PageSize > 100 {
		res.addWarn("listing.max_offset=%d means more than 100 pages per run.", out.Listing.MaxOffset)
	}

	// ---- ttls ----

	for name, days := range map[string]int{
		"listing.ttl_days":       out.Listing.TTLDays,
		"detail.ttl_days":        out.Detail.TTLDays,
		"geocode.ttl_days":       out.Geocode.TTLDays,
		"skills.report_ttl_days": out.Skills.ReportTTLDays,
	} {
		if days <= 0 {
			res.addErr("%s must be > 0", name)
		}
	}

	// ---- geocode ----

	if strings.TrimSpace(out.Geocode.BaseURL) == "" {
		res.addErr("geocode.base_url is required")
	}
	if strings.TrimSpace(out.Geocode.Country) == "" {
		out.Geocode.Country = "us"
	}
	if out.Geocode.MaxRows <= 0 {
		out.Geocode.MaxRows = 1
	}
	if out.Geocode.Username == "" && strings.TrimSpace(out.Geocode.KeyringAccount) == "" {
		res.addWarn("geocode.username is empty and no keyring_account is set; coordinates will be left empty.")
	}

	// ---- skills / selectors ----

	if strings.TrimSpace(out.Skills.File) == "" {
		res.addErr("skills.file is required")
	}
	for name, sel := range map[string]string{
		"selectors.card":        out.Selectors.Card,
		"selectors.title":       out.Selectors.Title,
		"selectors.company":     out.Selectors.Company,
		"selectors.location":    out.Selectors.Location,
		"selectors.description": out.Selectors.Description,
	} {
		if strings.TrimSpace(sel) == "" {
			res.addErr("%s is required", name)
		}
	}
	if len(out.Filters.ExcludeTitles) == 0 {
		res.addWarn("filters.exclude_titles is empty; every role family will be enriched.")
	}

	// ---- http ----

	if out.HTTP.Timeout <= 0 {
		res.addErr("http.timeout must be > 0")
	}
	if out.HTTP.RequestsPerSecond < 0 {
		res.addErr("http.requests_per_second must be >= 0")
	} else if out.HTTP.RequestsPerSecond == 0 || out.HTTP.RequestsPerSecond > 5 {
		res.addWarn("http.requests_per_second=%g is not throttling much and may get the crawler blocked.", out.HTTP.RequestsPerSecond)
	}
	if out.HTTP.Burst < 1 {
		out.HTTP.Burst = 1
	}
	if out.HTTP.Retries < 0 || out.HTTP.Retries > 5 {
		res.addErr("http.retries must be between 0 and 5")
	}
	if out.HTTP.Workers < 1 || out.HTTP.Workers > 16 {
		res.addErr("http.workers must be between 1 and 16")
	}

	// ---- cache / store ----

	if strings.TrimSpace(out.Cache.Dir) == "" {
		out.Cache.Dir = "."
	}
	names := map[string]string{
		"cache.listing": out.Cache.Listing,
		"cache.detail":  out.Cache.Detail,
		"cache.geo":     out.Cache.Geo,
		"cache.skills":  out.Cache.Skills,
	}
	used := map[string]string{}
	for key, file := range names {
		file = strings.TrimSpace(file)
		if file == "" {
			res.addErr("%s is required", key)
			continue
		}
		if other, dup := used[file]; dup {
			res.addErr("%s and %s share the file %q; each cache needs its own file", key, other, file)
		}
		used[file] = key
	}

	switch out.Store.Driver {
	case "sqlite", "postgres":
	case "":
		out.Store.Driver = "sqlite"
	default:
		res.addErr("store.driver must be sqlite or postgres, got %q", out.Store.Driver)
	}
	if strings.TrimSpace(out.Store.DSN) == "" {
		res.addErr("store.dsn is required")
	}

	return out, res
}
