package weather

import (
	"fmt"
	"time"
)

// Coordinate is a resolved location: a lat/lon pair plus the geocoder's
// canonical label for it.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// Units holds the unit strings reported by the provider next to the series.
type Units struct {
	Temperature   string `json:"temperature"`
	Humidity      string `json:"humidity"`
	Pressure      string `json:"pressure"`
	CloudCover    string `json:"cloudCover"`
	WindSpeed     string `json:"windSpeed"`
	WindDirection string `json:"windDirection"`
	Precipitation string `json:"precipitation"`
}

// HourlySeries is the provider's hourly time series for one coordinate.
// Timestamps are the location's local wall clock, stored as UTC values
// (2024-05-01T10:00 local is kept as 2024-05-01T10:00Z).
type HourlySeries struct {
	Timestamps []time.Time
	UTCOffset  time.Duration
	Timezone   string
	Units      Units

	Temperature   []float64
	Humidity      []float64
	Pressure      []float64
	CloudCover    []float64
	WindSpeed     []float64
	WindDirection []float64
	WeatherCode   []int
}

// Validate checks that every parallel series matches the timestamp series.
func (s HourlySeries) Validate() error {
	n := len(s.Timestamps)
	lengths := []struct {
		name string
		len  int
	}{
		{"temperature", len(s.Temperature)},
		{"humidity", len(s.Humidity)},
		{"pressure", len(s.Pressure)},
		{"cloud cover", len(s.CloudCover)},
		{"wind speed", len(s.WindSpeed)},
		{"wind direction", len(s.WindDirection)},
		{"weather code", len(s.WeatherCode)},
	}
	for _, l := range lengths {
		if l.len != n {
			return fmt.Errorf("%w: %s series has %d rows, expected %d", ErrUpstream, l.name, l.len, n)
		}
	}
	return nil
}

// At returns the row at index i. The caller is responsible for bounds.
func (s HourlySeries) At(i int) Observation {
	return Observation{
		Instant:       s.Timestamps[i].Add(-s.UTCOffset).In(s.location()),
		Temperature:   s.Temperature[i],
		Humidity:      s.Humidity[i],
		Pressure:      s.Pressure[i],
		CloudCover:    s.CloudCover[i],
		WindSpeed:     s.WindSpeed[i],
		WindDirection: s.WindDirection[i],
		WeatherCode:   s.WeatherCode[i],
		Units:         s.Units,
	}
}

func (s HourlySeries) location() *time.Location {
	name := s.Timezone
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, int(s.UTCOffset/time.Second))
}

// Observation is one reduced row of an HourlySeries.
type Observation struct {
	Instant       time.Time `json:"instant"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	CloudCover    float64   `json:"cloudCoverPercent"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection float64   `json:"windDirectionDegrees"`
	WeatherCode   int       `json:"weatherCode"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Units         Units     `json:"units"`
}

// DailySeries is the provider's per-day forecast series.
type DailySeries struct {
	Days      []time.Time
	UTCOffset time.Duration
	Timezone  string
	Units     Units

	TemperatureMax           []float64
	TemperatureMin           []float64
	PrecipitationProbability []float64
}

// Validate checks that every parallel series matches the day series.
func (s DailySeries) Validate() error {
	n := len(s.Days)
	if len(s.TemperatureMax) != n || len(s.TemperatureMin) != n || len(s.PrecipitationProbability) != n {
		return fmt.Errorf("%w: daily series lengths differ (days=%d max=%d min=%d precip=%d)",
			ErrUpstream, n, len(s.TemperatureMax), len(s.TemperatureMin), len(s.PrecipitationProbability))
	}
	return nil
}

// DailyObservation is one day of a forecast.
type DailyObservation struct {
	Date                     time.Time `json:"date"`
	TemperatureMax           float64   `json:"temperatureMax"`
	TemperatureMin           float64   `json:"temperatureMin"`
	PrecipitationProbability float64   `json:"precipitationProbabilityMax"`
	Units                    Units     `json:"units"`
}

// Report is what the presentation layer receives for a /weather request.
type Report struct {
	Location    Coordinate         `json:"location"`
	Observation Observation        `json:"observation"`
	Forecast    []DailyObservation `json:"forecast,omitempty"`
	RadarURL    string             `json:"radarUrl,omitempty"`
}
