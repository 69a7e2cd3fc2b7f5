package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-bot/internal/weather"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func obsAt(hours int, temp float64) weather.Observation {
	return weather.Observation{Instant: base.Add(time.Duration(hours) * time.Hour), Temperature: temp}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)

	if _, err := s.GetLatest("paris"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for i := 0; i < 4; i++ {
		s.SaveObservation("paris", obsAt(i, float64(10+i)))
	}

	latest, err := s.GetLatest("paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Temperature != 13 {
		t.Errorf("expected latest temperature 13, got %v", latest.Temperature)
	}

	got, err := s.GetRange("paris", base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Temperature != 11 || got[1].Temperature != 12 {
		t.Errorf("expected inclusive range [11 12], got %+v", got)
	}

	if _, err := s.GetRange("paris", base.Add(10*time.Hour), base.Add(11*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty range, got %v", err)
	}
}

func TestMemoryStoreReplacesSameInstant(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveObservation("oslo", obsAt(0, 1))
	s.SaveObservation("oslo", obsAt(0, 2))

	got, err := s.GetRange("oslo", base, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Temperature != 2 {
		t.Errorf("expected a single replaced observation, got %+v", got)
	}
}

func TestMemoryStoreKeepsOrder(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveObservation("rome", obsAt(2, 2))
	s.SaveObservation("rome", obsAt(0, 0))
	s.SaveObservation("rome", obsAt(1, 1))
	s.SaveObservation("rome", obsAt(1, 5))

	got, err := s.GetRange("rome", base, base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 5, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d observations, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Temperature != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i].Temperature)
		}
	}
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := 0; i < 5; i++ {
		s.SaveObservation("lima", obsAt(i, float64(i)))
	}

	got, err := s.GetRange("lima", base, base.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Temperature != 3 || got[1].Temperature != 4 {
		t.Errorf("expected the two newest observations, got %+v", got)
	}
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, 2*time.Hour)
	s.now = func() time.Time { return base.Add(3 * time.Hour) }

	for i := 0; i <= 3; i++ {
		s.SaveObservation("kyiv", obsAt(i, float64(i)))
	}

	got, err := s.GetRange("kyiv", base, base.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Temperature != 1 {
		t.Errorf("expected observations at or after the cutoff, got %+v", got)
	}

	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	s.SaveObservation("kyiv", obsAt(4, 4))
	if _, err := s.GetLatest("kyiv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected every stale observation to be dropped, got %v", err)
	}
}

func TestMemoryStoreKeys(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveObservation("b", obsAt(0, 0))
	s.SaveObservation("a", obsAt(0, 0))

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(10, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SaveObservation("tokyo", obsAt(i, float64(i)))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.GetLatest("tokyo")
		}()
	}
	wg.Wait()

	got, err := s.GetRange("tokyo", base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected retention to cap at 10, got %d", len(got))
	}
}

func TestMemoryStoreSatisfiesWeatherStore(t *testing.T) {
	var _ weather.Store = NewMemoryStore(0, 0)
}
