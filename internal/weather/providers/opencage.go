package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-bot/internal/weather"
)

// OpenCageGeocoder implements weather.Geocoder against the OpenCage API.
type OpenCageGeocoder struct {
	name    string
	apiKey  string
	client   *resty.Client
	limiter  *rate.Limiter
	circuit  *gobreaker.CircuitBreaker
	recorder Recorder
}

func NewOpenCageGeocoder(opts Options, apiKey string) *OpenCageGeocoder {
	hc := opts.Client
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	client := resty.NewWithClient(hc).
		SetBaseURL("https://api.opencagedata.com").
		SetHeader("User-Agent", "weather-bot/1.0").
		SetRetryCount(0)

	return &OpenCageGeocoder{
		name:     "opencage",
		apiKey:   apiKey,
		client:   client,
		limiter:  newLimiter(opts.RPS, opts.Burst),
		circuit:  newCircuitBreaker("opencage"),
		recorder: opts.Recorder,
	}
}

func (g *OpenCageGeocoder) Name() string {
	return g.name
}

type openCageResult struct {
	Formatted string `json:"formatted"`
	Geometry  struct {
		Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
		Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
	} `json:"geometry"`
}

type openCagePayload struct {
	Results []openCageResult `json:"results"`
	Status  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

// Geocode returns the first OpenCage match for query.
func (g *OpenCageGeocoder) Geocode(ctx context.Context, query string) (weather.Coordinate, error) {
	if g.apiKey == "" {
		return weather.Coordinate{}, fmt.Errorf("%w: opencage api key is not configured", weather.ErrUpstream)
	}
	if err := waitLimiter(ctx, g.limiter); err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}

	start := time.Now()
	coord, err := g.geocode(ctx, query)
	observe(g.recorder, g.name, err, start)
	return coord, err
}

func (g *OpenCageGeocoder) geocode(ctx context.Context, query string) (weather.Coordinate, error) {
	result, err := g.circuit.Execute(func() (interface{}, error) {
		var payload openCagePayload
		resp, err := g.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"key":            g.apiKey,
				"q":              query,
				"limit":          "1",
				"no_annotations": "1",
			}).
			SetResult(&payload).
			Get("/geocode/v1/json")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode())
		}
		return &payload, nil
	})
	if err != nil {
		if breakerError(err) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return weather.Coordinate{}, fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}

	payload, ok := result.(*openCagePayload)
	if !ok {
		return weather.Coordinate{}, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrUpstream)
	}
	if len(payload.Results) == 0 {
		return weather.Coordinate{}, weather.ErrLocationNotFound
	}

	first := payload.Results[0]
	if err := validate.Struct(first); err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: opencage result shape: %v", weather.ErrUpstream, err)
	}

	return weather.Coordinate{
		Latitude:  first.Geometry.Lat,
		Longitude: first.Geometry.Lng,
		Label:     first.Formatted,
	}, nil
}
