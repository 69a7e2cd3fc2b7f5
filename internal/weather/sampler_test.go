package weather

import (
	"errors"
	"testing"
	"time"
)

func clock(h, m int) time.Time {
	return time.Date(2024, 5, 1, h, m, 0, 0, time.UTC)
}

func TestNearestIndex(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []time.Time
		target     time.Time
		want       int
	}{
		{
			name:       "closer to later row",
			timestamps: []time.Time{clock(10, 0), clock(11, 0), clock(12, 0)},
			target:     clock(11, 40),
			want:       2,
		},
		{
			name:       "exact midpoint picks first",
			timestamps: []time.Time{clock(10, 0), clock(11, 0)},
			target:     clock(10, 30),
			want:       0,
		},
		{
			name:       "exact match",
			timestamps: []time.Time{clock(10, 0), clock(11, 0), clock(12, 0)},
			target:     clock(11, 0),
			want:       1,
		},
		{
			name:       "target before series",
			timestamps: []time.Time{clock(10, 0), clock(11, 0)},
			target:     clock(3, 0),
			want:       0,
		},
		{
			name:       "target after series",
			timestamps: []time.Time{clock(10, 0), clock(11, 0)},
			target:     clock(23, 0),
			want:       1,
		},
		{
			name:       "unsorted input",
			timestamps: []time.Time{clock(15, 0), clock(9, 0), clock(12, 0)},
			target:     clock(11, 50),
			want:       2,
		},
		{
			name:       "duplicate timestamps keep leftmost",
			timestamps: []time.Time{clock(9, 0), clock(12, 0), clock(12, 0)},
			target:     clock(12, 0),
			want:       1,
		},
		{
			name:       "single row",
			timestamps: []time.Time{clock(0, 0)},
			target:     clock(18, 0),
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestIndex(tt.timestamps, tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected index %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNearestIndexIsMinimal(t *testing.T) {
	timestamps := make([]time.Time, 0, 48)
	for i := 0; i < 48; i++ {
		timestamps = append(timestamps, clock(0, 0).Add(time.Duration(i)*37*time.Minute))
	}

	for m := -120; m < 48*37+120; m += 7 {
		target := clock(0, 0).Add(time.Duration(m) * time.Minute)
		got, err := NearestIndex(timestamps, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		gotDiff := absDuration(timestamps[got].Sub(target))
		for j, ts := range timestamps {
			d := absDuration(ts.Sub(target))
			if d < gotDiff || (d == gotDiff && j < got) {
				t.Fatalf("target %s: index %d (diff %s) beats chosen %d (diff %s)", target, j, d, got, gotDiff)
			}
		}
	}
}

func TestNearestIndexEmpty(t *testing.T) {
	_, err := NearestIndex(nil, clock(12, 0))
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestLocalTarget(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 40, 0, 0, time.UTC)

	got := LocalTarget(now, 3*time.Hour)
	want := time.Date(2024, 5, 1, 11, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	// Non-UTC input is normalised first.
	tokyo := time.FixedZone("JST", 9*3600)
	got = LocalTarget(now.In(tokyo), -5*time.Hour)
	want = time.Date(2024, 5, 1, 3, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func hourlyFixture(offset time.Duration) HourlySeries {
	return HourlySeries{
		Timestamps:    []time.Time{clock(10, 0), clock(11, 0), clock(12, 0)},
		UTCOffset:     offset,
		Timezone:      "EEST",
		Temperature:   []float64{14.1, 15.2, 16.3},
		Humidity:      []float64{70, 65, 60},
		Pressure:      []float64{1012, 1013, 1014},
		CloudCover:    []float64{10, 50, 90},
		WindSpeed:     []float64{5, 6, 7},
		WindDirection: []float64{180, 190, 200},
		WeatherCode:   []int{0, 61, 150},
		Units:         Units{Temperature: "°C", WindSpeed: "km/h"},
	}
}

func TestSampleNearestAppliesOffset(t *testing.T) {
	series := hourlyFixture(3 * time.Hour)

	// 08:40 UTC is 11:40 local, closest to the 12:00 row.
	obs, err := SampleNearest(series, time.Date(2024, 5, 1, 8, 40, 0, 0, time.UTC), DefaultCodeTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Temperature != 16.3 {
		t.Errorf("expected temperature of 12:00 row, got %v", obs.Temperature)
	}
	if obs.Description != UnknownDescription || obs.Icon != FallbackIcon {
		t.Errorf("expected fallback for code 150, got %+v", obs)
	}
	wantInstant := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if !obs.Instant.Equal(wantInstant) {
		t.Errorf("expected instant %s, got %s", wantInstant, obs.Instant)
	}
	if _, off := obs.Instant.Zone(); off != 3*3600 {
		t.Errorf("expected +3h zone on instant, got %d", off)
	}

	// Without the offset the same clock would land on the 10:00 row.
	series.UTCOffset = 0
	obs, err = SampleNearest(series, time.Date(2024, 5, 1, 8, 40, 0, 0, time.UTC), DefaultCodeTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Temperature != 14.1 {
		t.Errorf("expected temperature of 10:00 row, got %v", obs.Temperature)
	}
}

func TestSampleNearestRejectsRaggedSeries(t *testing.T) {
	series := hourlyFixture(0)
	series.Humidity = series.Humidity[:2]

	_, err := SampleNearest(series, clock(11, 0), DefaultCodeTable())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSampleNearestEmpty(t *testing.T) {
	_, err := SampleNearest(HourlySeries{}, clock(11, 0), DefaultCodeTable())
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}
