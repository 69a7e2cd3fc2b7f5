package weather

import (
	"context"
	"strings"
	"time"
)

// Geocoder resolves free text to the provider's best matching coordinate.
// Implementations return ErrLocationNotFound for an empty result set and
// wrap every other failure with ErrUpstream.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) (Coordinate, error)
}

// Source abstracts a weather provider that serves hourly and daily series
// (e.g. Open-Meteo).
type Source interface {
	Name() string
	FetchHourly(ctx context.Context, c Coordinate) (HourlySeries, error)
	FetchDaily(ctx context.Context, c Coordinate, days int) (DailySeries, error)
}

// RadarSource builds a precipitation map image URL for a coordinate.
type RadarSource interface {
	RadarURL(c Coordinate) string
}

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	SaveObservation(key string, obs Observation)
	GetLatest(key string) (Observation, error)
	GetRange(key string, from, to time.Time) ([]Observation, error)
	Keys() []string
}

// LocationKey normalises a query for indexing watch-list history.
func LocationKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
