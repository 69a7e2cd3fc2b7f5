package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	openMeteoHourlyFields = "temperature_2m,relativehumidity_2m,weathercode,pressure_msl,cloudcover,windspeed_10m,winddirection_10m"
	openMeteoDailyFields  = "temperature_2m_max,temperature_2m_min,precipitation_probability_max"

	openMeteoHourLayout = "2006-01-02T15:04"
	openMeteoDayLayout  = "2006-01-02"
)

// OpenMeteoProvider implements weather.Source for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(opts Options) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoHourlyPayload struct {
	UTCOffsetSeconds     *int   `json:"utc_offset_seconds" validate:"required"`
	Timezone             string `json:"timezone"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	HourlyUnits          struct {
		Temperature   string `json:"temperature_2m"`
		Humidity      string `json:"relativehumidity_2m"`
		Pressure      string `json:"pressure_msl"`
		CloudCover    string `json:"cloudcover"`
		WindSpeed     string `json:"windspeed_10m"`
		WindDirection string `json:"winddirection_10m"`
	} `json:"hourly_units"`
	Hourly *struct {
		Time          []string  `json:"time" validate:"required"`
		Temperature   []float64 `json:"temperature_2m" validate:"required"`
		Humidity      []float64 `json:"relativehumidity_2m" validate:"required"`
		WeatherCode   []int     `json:"weathercode" validate:"required"`
		Pressure      []float64 `json:"pressure_msl" validate:"required"`
		CloudCover    []float64 `json:"cloudcover" validate:"required"`
		WindSpeed     []float64 `json:"windspeed_10m" validate:"required"`
		WindDirection []float64 `json:"winddirection_10m" validate:"required"`
	} `json:"hourly" validate:"required"`
}

type openMeteoDailyPayload struct {
	UTCOffsetSeconds     *int   `json:"utc_offset_seconds" validate:"required"`
	Timezone             string `json:"timezone"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	DailyUnits           struct {
		Temperature   string `json:"temperature_2m_max"`
		Precipitation string `json:"precipitation_probability_max"`
	} `json:"daily_units"`
	Daily *struct {
		Time                     []string  `json:"time" validate:"required"`
		TemperatureMax           []float64 `json:"temperature_2m_max" validate:"required"`
		TemperatureMin           []float64 `json:"temperature_2m_min" validate:"required"`
		PrecipitationProbability []float64 `json:"precipitation_probability_max" validate:"required"`
	} `json:"daily" validate:"required"`
}

// FetchHourly returns today's hourly series in the coordinate's local time.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, c weather.Coordinate) (weather.HourlySeries, error) {
	var payload openMeteoHourlyPayload
	if err := p.get(ctx, c, url.Values{
		"hourly":        {openMeteoHourlyFields},
		"forecast_days": {"1"},
	}, &payload); err != nil {
		return weather.HourlySeries{}, err
	}

	times, err := parseTimes(payload.Hourly.Time, openMeteoHourLayout)
	if err != nil {
		return weather.HourlySeries{}, err
	}

	series := weather.HourlySeries{
		Timestamps:    times,
		UTCOffset:     time.Duration(*payload.UTCOffsetSeconds) * time.Second,
		Timezone:      zoneName(payload.TimezoneAbbreviation, payload.Timezone),
		Temperature:   payload.Hourly.Temperature,
		Humidity:      payload.Hourly.Humidity,
		Pressure:      payload.Hourly.Pressure,
		CloudCover:    payload.Hourly.CloudCover,
		WindSpeed:     payload.Hourly.WindSpeed,
		WindDirection: payload.Hourly.WindDirection,
		WeatherCode:   payload.Hourly.WeatherCode,
		Units: weather.Units{
			Temperature:   payload.HourlyUnits.Temperature,
			Humidity:      payload.HourlyUnits.Humidity,
			Pressure:      payload.HourlyUnits.Pressure,
			CloudCover:    payload.HourlyUnits.CloudCover,
			WindSpeed:     payload.HourlyUnits.WindSpeed,
			WindDirection: payload.HourlyUnits.WindDirection,
		},
	}
	if err := series.Validate(); err != nil {
		return weather.HourlySeries{}, err
	}
	return series, nil
}

// FetchDaily returns a days-long daily forecast starting today.
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, c weather.Coordinate, days int) (weather.DailySeries, error) {
	if days <= 0 {
		days = weather.DefaultForecastDays
	}

	var payload openMeteoDailyPayload
	if err := p.get(ctx, c, url.Values{
		"daily":         {openMeteoDailyFields},
		"forecast_days": {strconv.Itoa(days)},
	}, &payload); err != nil {
		return weather.DailySeries{}, err
	}

	dates, err := parseTimes(payload.Daily.Time, openMeteoDayLayout)
	if err != nil {
		return weather.DailySeries{}, err
	}

	series := weather.DailySeries{
		Days:                     dates,
		UTCOffset:                time.Duration(*payload.UTCOffsetSeconds) * time.Second,
		Timezone:                 zoneName(payload.TimezoneAbbreviation, payload.Timezone),
		TemperatureMax:           payload.Daily.TemperatureMax,
		TemperatureMin:           payload.Daily.TemperatureMin,
		PrecipitationProbability: payload.Daily.PrecipitationProbability,
		Units: weather.Units{
			Temperature:   payload.DailyUnits.Temperature,
			Precipitation: payload.DailyUnits.Precipitation,
		},
	}
	if err := series.Validate(); err != nil {
		return weather.DailySeries{}, err
	}
	return series, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, c weather.Coordinate, extra url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
		values.Set("timezone", "auto")
		for k, v := range extra {
			values[k] = v
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", weather.ErrUpstream, p.name, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s response shape: %v", weather.ErrUpstream, p.name, err)
	}
	return nil
}

// parseTimes reads Open-Meteo's zone-less local timestamps as UTC wall-clock values.
func parseTimes(raw []string, layout string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		ts, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", weather.ErrUpstream, s, err)
		}
		out = append(out, ts)
	}
	return out, nil
}

func zoneName(abbreviation, name string) string {
	if s := strings.TrimSpace(abbreviation); s != "" {
		return s
	}
	return name
}
