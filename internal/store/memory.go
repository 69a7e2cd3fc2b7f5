package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-bot/internal/weather"
)

var (
	// ErrNotFound is returned when no observations are stored for a location.
	ErrNotFound = errors.New("no weather data for location")
)

// ObservationHistory holds a time-ordered list of observations for a location.
type ObservationHistory struct {
	Observations []weather.Observation
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: weather.LocationKey, value: history
	data map[string]*ObservationHistory

	maxHistory int           // max observations per location
	maxAge     time.Duration // max age of observations

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore. maxHistory <= 0 and maxAge <= 0
// disable the respective limit.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ObservationHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveObservation appends obs for key and enforces retention. Sampling the
// same hourly row twice replaces the previous entry instead of duplicating it.
func (s *MemoryStore) SaveObservation(key string, obs weather.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &ObservationHistory{}
		s.data[key] = history
	}

	n := len(history.Observations)
	switch {
	case n > 0 && history.Observations[n-1].Instant.Equal(obs.Instant):
		history.Observations[n-1] = obs
	case n > 0 && obs.Instant.Before(history.Observations[n-1].Instant):
		// Out of order; keep the slice sorted by Instant.
		i := n
		for i > 0 && obs.Instant.Before(history.Observations[i-1].Instant) {
			i--
		}
		if i > 0 && history.Observations[i-1].Instant.Equal(obs.Instant) {
			history.Observations[i-1] = obs
			break
		}
		history.Observations = append(history.Observations, weather.Observation{})
		copy(history.Observations[i+1:], history.Observations[i:])
		history.Observations[i] = obs
	default:
		history.Observations = append(history.Observations, obs)
	}

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Observations) > s.maxHistory {
		over := len(history.Observations) - s.maxHistory
		history.Observations = history.Observations[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Observations); i++ {
			if !history.Observations[i].Instant.Before(cutoff) {
				break
			}
		}
		history.Observations = history.Observations[i:]
	}

	if len(history.Observations) == 0 {
		delete(s.data, key)
	}
}

// GetLatest returns the most recent observation for key.
func (s *MemoryStore) GetLatest(key string) (weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Observations) == 0 {
		return weather.Observation{}, ErrNotFound
	}
	return history.Observations[len(history.Observations)-1], nil
}

// GetRange returns all observations for key between from and to (inclusive).
func (s *MemoryStore) GetRange(key string, from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Observations) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Observation
	for _, obs := range history.Observations {
		if !obs.Instant.Before(from) && !obs.Instant.After(to) {
			result = append(result, obs)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Keys lists the locations that currently hold observations, sorted.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
