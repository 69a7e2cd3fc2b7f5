package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelvins/geocoder"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-bot/internal/common"
	"github.com/i474232898/weather-bot/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Maps geocoding API.
// The geocoder package keeps its key in a package-level variable, so only
// one key is in effect per process.
type GoogleGeocoder struct {
	name     string
	apiKey   string
	limiter  *rate.Limiter
	recorder Recorder
}

func NewGoogleGeocoder(opts Options, apiKey string) *GoogleGeocoder {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GoogleGeocoder{
		name:     "google",
		apiKey:   apiKey,
		limiter:  newLimiter(opts.RPS, opts.Burst),
		recorder: opts.Recorder,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type googleResult struct {
	loc geocoder.Location
	err error
}

// Geocode sends a single forward lookup and labels the hit with query.
// The geocoder package takes no context, so the lookup runs in its own
// goroutine and a late result is dropped once ctx is done.
func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (weather.Coordinate, error) {
	if g.apiKey == "" {
		return weather.Coordinate{}, fmt.Errorf("%w: google geocoding api key is not configured", weather.ErrUpstream)
	}
	if err := waitLimiter(ctx, g.limiter); err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}

	start := time.Now()
	coord, err := g.geocode(ctx, query)
	observe(g.recorder, g.name, err, start)
	return coord, err
}

func (g *GoogleGeocoder) geocode(ctx context.Context, query string) (weather.Coordinate, error) {
	done := make(chan googleResult, 1)
	go func() {
		defer func() {
			// An OK status with an empty result list panics inside the package.
			if r := recover(); r != nil {
				done <- googleResult{err: fmt.Errorf("malformed response: %v", r)}
			}
		}()
		loc, err := geocoder.Geocoding(geocoder.Address{Street: url.QueryEscape(query)})
		done <- googleResult{loc: loc, err: err}
	}()

	var res googleResult
	select {
	case <-ctx.Done():
		return weather.Coordinate{}, fmt.Errorf("%w: google geocoding: %w", weather.ErrUpstream, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		if isZeroResults(res.err) {
			return weather.Coordinate{}, weather.ErrLocationNotFound
		}
		return weather.Coordinate{}, fmt.Errorf("%w: google geocoding: %v", weather.ErrUpstream, res.err)
	}

	return weather.Coordinate{
		Latitude:  res.loc.Latitude,
		Longitude: res.loc.Longitude,
		Label:     query,
	}, nil
}

func isZeroResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return common.HasAny(msg, "zero_results", "no results", "not found")
}
