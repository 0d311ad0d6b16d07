package fetch

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"jobharvest/internal/cache"
)

// GeoResult is the part of a postal code search response we keep.
type GeoResult struct {
	PostalCodes []PostalCode `json:"postalCodes"`
	Status      *GeoStatus   `json:"status,omitempty"`
}

type PostalCode struct {
	PlaceName  string   `json:"placeName,omitempty"`
	AdminCode1 string   `json:"adminCode1,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

// GeoStatus is set by the service on errors such as an unknown username.
type GeoStatus struct {
	Message string `json:"message"`
	Value   int    `json:"value"`
}

type GeocodeOptions struct {
	BaseURL  string
	Username string
	Country  string
	MaxRows  int
	TTLDays  int
}

// Geocoder resolves place names to coordinates. Lookups never fail: any
// transport or shape problem yields absent coordinates.
type Geocoder struct {
	opts   GeocodeOptions
	get    Getter
	cache  *cache.Store[GeoResult]
	logger *slog.Logger
}

func NewGeocoder(opts GeocodeOptions, get Getter, store *cache.Store[GeoResult], logger *slog.Logger) *Geocoder {
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = 1
	}
	return &Geocoder{opts: opts, get: get, cache: store, logger: logger}
}

func (g *Geocoder) params(place string) map[string]string {
	return map[string]string{
		"placename": place,
		"username":  g.opts.Username,
		"country":   g.opts.Country,
		"maxRows":   strconv.Itoa(g.opts.MaxRows),
	}
}

// Lookup returns the first match's coordinates for place, or nil, nil.
func (g *Geocoder) Lookup(ctx context.Context, place string) (lat, lng *float64) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, nil
	}

	params := g.params(place)
	id := cache.Key(g.opts.BaseURL+"?", params, "username")

	res, ok := g.cache.Get(id)
	if !ok {
		body, err := g.get.Get(ctx, g.opts.BaseURL, toValues(params))
		if err != nil {
			g.logger.Warn("geocode request failed", "place", place, "error", err)
			return nil, nil
		}
		if err := json.Unmarshal([]byte(body), &res); err != nil {
			g.logger.Warn("geocode response malformed", "place", place, "error", err)
			return nil, nil
		}
		if res.Status != nil {
			// credential or quota problems are not facts about the place
			g.logger.Warn("geocode service error", "place", place, "message", res.Status.Message, "code", res.Status.Value)
			return nil, nil
		}
		if err := g.cache.Set(id, res, g.opts.TTLDays); err != nil {
			g.logger.Warn("cache write failed", "id", id, "error", err)
		}
	}

	if len(res.PostalCodes) == 0 {
		g.logger.Debug("geocode no match", "place", place)
		return nil, nil
	}
	first := res.PostalCodes[0]
	if first.Lat == nil || first.Lng == nil {
		return nil, nil
	}
	la, ln := *first.Lat, *first.Lng
	return &la, &ln
}
