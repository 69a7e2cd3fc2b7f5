package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultForecastDays matches what the /forecast command shows.
	DefaultForecastDays = 5
	// MaxForecastDays is the longest daily series Open-Meteo serves.
	MaxForecastDays = 16
)

// Service resolves locations and reduces provider series to the values the
// bot and the HTTP API render.
type Service struct {
	geocoder     Geocoder
	source       Source
	radar        RadarSource
	store        Store
	codes        CodeTable
	now          func() time.Time
	forecastDays int
}

// Option customises a Service.
type Option func(*Service)

// WithCodeTable replaces the default WMO table.
func WithCodeTable(t CodeTable) Option {
	return func(s *Service) { s.codes = t }
}

// WithClock sets the clock used as "now" when sampling.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRadar attaches a precipitation map source to weather reports.
func WithRadar(r RadarSource) Option {
	return func(s *Service) { s.radar = r }
}

// WithForecastDays sets the forecast length used when callers pass 0.
func WithForecastDays(days int) Option {
	return func(s *Service) {
		if days > 0 && days <= MaxForecastDays {
			s.forecastDays = days
		}
	}
}

// NewService creates a new Service. store may be nil when no watch list is used.
func NewService(geocoder Geocoder, source Source, store Store, opts ...Option) *Service {
	s := &Service{
		geocoder:     geocoder,
		source:       source,
		store:        store,
		codes:        DefaultCodeTable(),
		now:          time.Now,
		forecastDays: DefaultForecastDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve turns free text into a Coordinate. Blank input is rejected without
// calling the geocoder.
func (s *Service) Resolve(ctx context.Context, query string) (Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Coordinate{}, ErrEmptyQuery
	}
	if s.geocoder == nil {
		return Coordinate{}, fmt.Errorf("%w: no geocoder configured", ErrUpstream)
	}

	coord, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return Coordinate{}, err
	}
	if coord.Label == "" {
		coord.Label = query
	}
	return coord, nil
}

// Current resolves query and samples the hourly series closest to now.
func (s *Service) Current(ctx context.Context, query string) (Report, error) {
	coord, err := s.Resolve(ctx, query)
	if err != nil {
		return Report{}, err
	}

	obs, err := s.observe(ctx, coord)
	if err != nil {
		return Report{}, err
	}

	return s.report(coord, obs, nil), nil
}

// Forecast resolves query and returns the daily forecast. days <= 0 uses the
// configured default.
func (s *Service) Forecast(ctx context.Context, query string, days int) (Coordinate, []DailyObservation, error) {
	days, err := s.normalizeDays(days)
	if err != nil {
		return Coordinate{}, nil, err
	}

	coord, err := s.Resolve(ctx, query)
	if err != nil {
		return Coordinate{}, nil, err
	}

	forecast, err := s.forecast(ctx, coord, days)
	if err != nil {
		return Coordinate{}, nil, err
	}
	return coord, forecast, nil
}

// Outlook fetches the current observation and the daily forecast
// concurrently once the location is resolved. Either failure fails the call.
func (s *Service) Outlook(ctx context.Context, query string, days int) (Report, error) {
	days, err := s.normalizeDays(days)
	if err != nil {
		return Report{}, err
	}

	coord, err := s.Resolve(ctx, query)
	if err != nil {
		return Report{}, err
	}

	var (
		wg          sync.WaitGroup
		obs         Observation
		forecast    []DailyObservation
		obsErr      error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		obs, obsErr = s.observe(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.forecast(ctx, coord, days)
	}()
	wg.Wait()

	if obsErr != nil {
		return Report{}, obsErr
	}
	if forecastErr != nil {
		return Report{}, forecastErr
	}

	return s.report(coord, obs, forecast), nil
}

// Radar resolves query and returns the precipitation tile URL covering it.
func (s *Service) Radar(ctx context.Context, query string) (Coordinate, string, error) {
	if s.radar == nil {
		return Coordinate{}, "", ErrRadarUnavailable
	}

	coord, err := s.Resolve(ctx, query)
	if err != nil {
		return Coordinate{}, "", err
	}

	u := s.radar.RadarURL(coord)
	if u == "" {
		return Coordinate{}, "", ErrRadarUnavailable
	}
	return coord, u, nil
}

// FetchAndStore samples the current observation for query and appends it to
// the history store. Used by the scheduler for watch-list locations.
func (s *Service) FetchAndStore(ctx context.Context, query string) error {
	if s.store == nil {
		return fmt.Errorf("no history store configured")
	}

	report, err := s.Current(ctx, query)
	if err != nil {
		return err
	}

	log.Printf("DEBUG: storing observation for %q (%s) at %s", query, report.Location.Label, report.Observation.Instant.Format(time.RFC3339))
	s.store.SaveObservation(LocationKey(query), report.Observation)
	return nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(query string) (Observation, error) {
	if s.store == nil {
		return Observation{}, fmt.Errorf("no history store configured")
	}
	return s.store.GetLatest(LocationKey(query))
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(query string, from, to time.Time) ([]Observation, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no history store configured")
	}
	return s.store.GetRange(LocationKey(query), from, to)
}

// Locations lists the location keys that currently hold history.
func (s *Service) Locations() []string {
	if s.store == nil {
		return []string{}
	}
	return s.store.Keys()
}

func (s *Service) observe(ctx context.Context, coord Coordinate) (Observation, error) {
	if s.source == nil {
		return Observation{}, fmt.Errorf("%w: no weather source configured", ErrUpstream)
	}

	series, err := s.source.FetchHourly(ctx, coord)
	if err != nil {
		return Observation{}, err
	}
	return SampleNearest(series, s.now(), s.codes)
}

func (s *Service) forecast(ctx context.Context, coord Coordinate, days int) ([]DailyObservation, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no weather source configured", ErrUpstream)
	}

	series, err := s.source.FetchDaily(ctx, coord, days)
	if err != nil {
		return nil, err
	}
	return ReduceDaily(series)
}

func (s *Service) report(coord Coordinate, obs Observation, forecast []DailyObservation) Report {
	r := Report{
		Location:    coord,
		Observation: obs,
		Forecast:    forecast,
	}
	if s.radar != nil {
		r.RadarURL = s.radar.RadarURL(coord)
	}
	return r
}

func (s *Service) normalizeDays(days int) (int, error) {
	if days == 0 {
		return s.forecastDays, nil
	}
	if days < 0 || days > MaxForecastDays {
		return 0, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidDays, days, MaxForecastDays)
	}
	return days, nil
}
