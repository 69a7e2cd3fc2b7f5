package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-bot/internal/weather"
)

func newTestOpenCage(t *testing.T, apiKey string, handler http.HandlerFunc) *OpenCageGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewOpenCageGeocoder(Options{Client: srv.Client()}, apiKey)
	g.client.SetBaseURL(srv.URL)
	return g
}

func TestOpenCageGeocode(t *testing.T) {
	g := newTestOpenCage(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/v1/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "secret" {
			t.Errorf("expected key=secret, got %q", q.Get("key"))
		}
		if q.Get("q") != "Paris & Co" {
			t.Errorf("expected query to be escaped and passed through, got %q", q.Get("q"))
		}
		if q.Get("no_annotations") != "1" {
			t.Errorf("expected no_annotations=1")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"formatted":"Paris, France","geometry":{"lat":48.8566,"lng":2.3522}},
			{"formatted":"Paris, Texas, United States","geometry":{"lat":33.66,"lng":-95.55}}
		],"status":{"code":200,"message":"OK"}}`))
	})

	coord, err := g.Geocode(context.Background(), "Paris & Co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522, Label: "Paris, France"}
	if coord != want {
		t.Errorf("expected %+v, got %+v", want, coord)
	}
}

func TestOpenCageNoResults(t *testing.T) {
	g := newTestOpenCage(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[],"status":{"code":200,"message":"OK"}}`))
	})

	rec := &fakeRecorder{}
	g.recorder = rec

	_, err := g.Geocode(context.Background(), "Atlantis")
	if !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if got := rec.calls(); len(got) != 1 || got[0] != "opencage/not_found" {
		t.Errorf("unexpected recorded calls %v", got)
	}
}

func TestOpenCageFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status":{"code":401,"message":"invalid key"}}`, weather.ErrUpstream},
		{"server error", http.StatusInternalServerError, `{}`, weather.ErrUpstream},
		{"latitude out of range", http.StatusOK, `{"results":[{"formatted":"Nowhere","geometry":{"lat":123,"lng":0}}]}`, weather.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestOpenCage(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := g.Geocode(context.Background(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if errors.Is(err, weather.ErrLocationNotFound) {
				t.Fatalf("failure must not look like a missing location")
			}
		})
	}
}

func TestOpenCageMissingKey(t *testing.T) {
	called := false
	g := newTestOpenCage(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := g.Geocode(context.Background(), "Paris"); !errors.Is(err, weather.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if called {
		t.Errorf("no request should be made without an api key")
	}
}
