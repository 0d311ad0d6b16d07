package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobharvest/internal/cache"
)

// Getter is the network side of the fetchers.
type Getter interface {
	Get(ctx context.Context, rawURL string, q url.Values) (string, error)
}

type ListingOptions struct {
	BaseURL  string
	Query    string
	Location string
	TTLDays  int
}

// ListingFetcher returns search result pages, served from cache when fresh.
type ListingFetcher struct {
	opts   ListingOptions
	get    Getter
	cache  *cache.Store[string]
	logger *slog.Logger
}

func NewListingFetcher(opts ListingOptions, get Getter, store *cache.Store[string], logger *slog.Logger) *ListingFetcher {
	return &ListingFetcher{opts: opts, get: get, cache: store, logger: logger}
}

// Params are the request parameters for the page starting at offset. The
// first page carries no start param.
func (f *ListingFetcher) Params(offset int) map[string]string {
	p := map[string]string{
		"q": f.opts.Query,
		"l": f.opts.Location,
	}
	if offset != 0 {
		p["start"] = strconv.Itoa(offset)
	}
	return p
}

func (f *ListingFetcher) FetchPage(ctx context.Context, offset int) (*goquery.Document, error) {
	params := f.Params(offset)
	id := cache.Key(f.opts.BaseURL+"?", params)

	body, err := cachedGet(ctx, f.cache, id, f.opts.TTLDays, f.logger, func() (string, error) {
		return f.get.Get(ctx, f.opts.BaseURL, toValues(params))
	})
	if err != nil {
		return nil, fmt.Errorf("listing offset=%d: %w", offset, err)
	}
	return parse(body)
}

// DetailFetcher returns posting detail pages keyed by their literal URL.
type DetailFetcher struct {
	ttlDays int
	get     Getter
	cache   *cache.Store[string]
	logger  *slog.Logger
}

func NewDetailFetcher(ttlDays int, get Getter, store *cache.Store[string], logger *slog.Logger) *DetailFetcher {
	return &DetailFetcher{ttlDays: ttlDays, get: get, cache: store, logger: logger}
}

func (f *DetailFetcher) FetchDetail(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := cachedGet(ctx, f.cache, rawURL, f.ttlDays, f.logger, func() (string, error) {
		return f.get.Get(ctx, rawURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("detail %s: %w", rawURL, err)
	}
	return parse(body)
}

func cachedGet(ctx context.Context, store *cache.Store[string], id string, ttlDays int, logger *slog.Logger, miss func() (string, error)) (string, error) {
	if body, ok := store.Get(id); ok {
		logger.Debug("cache hit", "id", id)
		return body, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := miss()
	if err != nil {
		return "", err
	}
	if err := store.Set(id, body, ttlDays); err != nil {
		logger.Warn("cache write failed", "id", id, "error", err)
	}
	return body, nil
}

func parse(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func toValues(params map[string]string) url.Values {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	return v
}
