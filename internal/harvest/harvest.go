package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"jobharvest/internal/cache"
	"jobharvest/internal/config"
	"jobharvest/internal/fetch"
	"jobharvest/internal/scrape"
	"jobharvest/internal/scrape/types"
	"jobharvest/internal/skills"
	"jobharvest/internal/store"
)

// SkillSnapshotID is the identifier the latest skill tallies are cached under.
const SkillSnapshotID = "skillset_dict"

// Harvester wires the caches, fetchers and pipeline for one configuration.
type Harvester struct {
	cfg    config.Config
	logger *slog.Logger

	listingCache *cache.Store[string]
	detailCache  *cache.Store[string]
	geoCache     *cache.Store[fetch.GeoResult]
	skillCache   *cache.Store[[]skills.Count]

	listing  *fetch.ListingFetcher
	detail   *fetch.DetailFetcher
	geocoder *fetch.Geocoder
}

// New opens the cache files under cfg.Cache.Dir. geoUsername is the resolved
// geocoding credential and may be empty.
func New(cfg config.Config, geoUsername string, logger *slog.Logger) *Harvester {
	copts := []cache.Option{cache.WithLogger(logger)}
	h := &Harvester{
		cfg:          cfg,
		logger:       logger,
		listingCache: cache.Open[string](filepath.Join(cfg.Cache.Dir, cfg.Cache.Listing), copts...),
		detailCache:  cache.Open[string](filepath.Join(cfg.Cache.Dir, cfg.Cache.Detail), copts...),
		geoCache:     cache.Open[fetch.GeoResult](filepath.Join(cfg.Cache.Dir, cfg.Cache.Geo), copts...),
		skillCache:   cache.Open[[]skills.Count](filepath.Join(cfg.Cache.Dir, cfg.Cache.Skills), copts...),
	}

	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
		Retries:           cfg.HTTP.Retries,
		BaseDelay:         cfg.HTTP.RetryDelay,
		UserAgent:         cfg.HTTP.UserAgent,
	}, logger)

	h.listing = fetch.NewListingFetcher(fetch.ListingOptions{
		BaseURL:  cfg.Listing.BaseURL,
		Query:    cfg.Listing.Query,
		Location: cfg.Listing.Location,
		TTLDays:  cfg.Listing.TTLDays,
	}, client, h.listingCache, logger)
	h.detail = fetch.NewDetailFetcher(cfg.Detail.TTLDays, client, h.detailCache, logger)
	h.geocoder = fetch.NewGeocoder(fetch.GeocodeOptions{
		BaseURL:  cfg.Geocode.BaseURL,
		Username: geoUsername,
		Country:  cfg.Geocode.Country,
		MaxRows:  cfg.Geocode.MaxRows,
		TTLDays:  cfg.Geocode.TTLDays,
	}, client, h.geoCache, logger)
	return h
}

func (h *Harvester) Geocoder() *fetch.Geocoder { return h.geocoder }

type Report struct {
	Run   types.RunResult
	Added int
}

// Run scrapes every configured page, persists the resulting jobs through
// sink and caches the run's skill tallies.
func (h *Harvester) Run(ctx context.Context, sink store.Sink) (Report, error) {
	reg, err := skills.LoadCSV(h.cfg.Skills.File)
	if err != nil {
		return Report{}, err
	}
	h.logger.Info("skills loaded", "file", h.cfg.Skills.File, "skills", reg.Len())

	p := scrape.New(scrape.Options{
		PageSize:      h.cfg.Listing.PageSize,
		MaxOffset:     h.cfg.Listing.MaxOffset,
		SiteURL:       h.cfg.Listing.SiteURL,
		ExcludeTitles: h.cfg.Filters.ExcludeTitles,
		Selectors:     scrape.Selectors(h.cfg.Selectors),
		Workers:       h.cfg.HTTP.Workers,
	}, h.listing, h.detail, skills.NewMatcher(reg, h.cfg.Skills.WordBoundary), h.logger)

	res, err := p.Run(ctx)
	if err != nil {
		return Report{Run: res}, fmt.Errorf("scrape: %w", err)
	}
	if len(res.Skips) > 0 {
		h.logger.Info("skipped candidates", "by_reason", res.SkipSummary())
	}

	added, err := store.Persist(ctx, sink, h.geocoder, res.Jobs, h.cfg.HTTP.Workers, h.logger.With("run_id", res.RunID))
	if err != nil {
		return Report{Run: res}, err
	}

	if err := h.skillCache.Set(SkillSnapshotID, reg.Counts(), h.cfg.Skills.ReportTTLDays); err != nil {
		h.logger.Warn("skill snapshot not cached", "error", err)
	}
	return Report{Run: res, Added: added}, nil
}

// SkillSnapshot returns the tallies cached by the last run, if still fresh.
func (h *Harvester) SkillSnapshot() ([]skills.Count, bool) {
	return h.skillCache.Get(SkillSnapshotID)
}

type CacheStat struct {
	Name    string
	Path    string
	Entries int
}

func (h *Harvester) CacheStats() []CacheStat {
	return []CacheStat{
		{"listing", h.listingCache.Path(), h.listingCache.Len()},
		{"detail", h.detailCache.Path(), h.detailCache.Len()},
		{"geo", h.geoCache.Path(), h.geoCache.Len()},
		{"skills", h.skillCache.Path(), h.skillCache.Len()},
	}
}

// PruneCaches drops expired entries from every cache file.
func (h *Harvester) PruneCaches() (map[string]int, error) {
	out := map[string]int{}
	prune := []struct {
		name string
		fn   func() (int, error)
	}{
		{"listing", h.listingCache.Prune},
		{"detail", h.detailCache.Prune},
		{"geo", h.geoCache.Prune},
		{"skills", h.skillCache.Prune},
	}
	for _, p := range prune {
		n, err := p.fn()
		if err != nil {
			return out, fmt.Errorf("prune %s cache: %w", p.name, err)
		}
		out[p.name] = n
	}
	return out, nil
}
