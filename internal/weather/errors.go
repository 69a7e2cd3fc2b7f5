package weather

import "errors"

var (
	// ErrEmptyQuery is returned when a location query is blank.
	ErrEmptyQuery = errors.New("location query is empty")

	// ErrLocationNotFound is returned when the geocoder has no match for a query.
	ErrLocationNotFound = errors.New("location not found")

	// ErrEmptySeries is returned when a provider series has no rows to sample.
	ErrEmptySeries = errors.New("weather data not available")

	// ErrInvalidDays is returned for forecast lengths the provider cannot serve.
	ErrInvalidDays = errors.New("forecast days out of range")

	// ErrRadarUnavailable is returned when no radar tile source is configured.
	ErrRadarUnavailable = errors.New("radar imagery not configured")

	// ErrUpstream wraps transport, status and decoding failures from providers.
	ErrUpstream = errors.New("upstream provider error")
)
