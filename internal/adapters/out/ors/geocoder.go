package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
)

const geocodeService = "ors geocode"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocoder implements ports.GeocodingProvider with /geocode/search. The
// cache is optional; cache failures are logged and never fail a lookup.
type Geocoder struct {
	client  *Client
	cache   GeocodeCache
	country string
	logger  *slog.Logger
}

func NewGeocoder(client *Client, cache GeocodeCache, country string, logger *slog.Logger) *Geocoder {
	return &Geocoder{
		client:  client,
		cache:   cache,
		country: country,
		logger:  logger.With("component", "ors_geocoder"),
	}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (_ kernel.Coordinates, err error) {
	norm := normalize(address)
	if norm == "" {
		return kernel.Coordinates{}, errs.NewValueIsRequiredError("address")
	}

	if g.cache != nil {
		coords, ok, cacheErr := g.cache.Get(ctx, norm)
		if cacheErr != nil {
			g.logger.WarnContext(ctx, "geocode cache read failed", "error", cacheErr)
		} else if ok {
			return coords, nil
		}
	}

	done := metrics.ObserveCall("ors", "geocode")
	defer func() { done(err) }()

	coords, err := g.search(ctx, norm)
	if err != nil {
		return kernel.Coordinates{}, errs.NewExternalServiceError(geocodeService, err)
	}

	if g.cache != nil {
		if cacheErr := g.cache.Set(ctx, norm, coords); cacheErr != nil {
			g.logger.WarnContext(ctx, "geocode cache write failed", "error", cacheErr)
		}
	}
	return coords, nil
}

func (g *Geocoder) search(ctx context.Context, text string) (kernel.Coordinates, error) {
	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, "/geocode/search", nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		if g.country != "" {
			q.Set("boundary.country", strings.ToUpper(g.country))
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return kernel.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return kernel.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return kernel.Coordinates{}, fmt.Errorf("no geocode results for %q", text)
	}

	pair := decoded.Features[0].Geometry.Coordinates
	if len(pair) != 2 {
		return kernel.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", text)
	}
	return kernel.NewCoordinates(pair[0], pair[1])
}
