package providers

import (
	"fmt"
	"math"
	"net/url"

	"github.com/i474232898/weather-bot/internal/weather"
)

// Web Mercator cannot represent latitudes beyond this.
const maxMercatorLatitude = 85.05112878

// OpenWeatherRadar builds OpenWeatherMap precipitation tile URLs.
type OpenWeatherRadar struct {
	apiKey  string
	baseURL string
	zoom    int
}

func NewOpenWeatherRadar(apiKey string) *OpenWeatherRadar {
	return &OpenWeatherRadar{
		apiKey:  apiKey,
		baseURL: "https://tile.openweathermap.org/map/precipitation_new",
		zoom:    6,
	}
}

// RadarURL returns the tile covering c, or "" when no api key is configured.
func (r *OpenWeatherRadar) RadarURL(c weather.Coordinate) string {
	if r == nil || r.apiKey == "" {
		return ""
	}

	x, y := tileXY(c.Latitude, c.Longitude, r.zoom)

	values := url.Values{}
	values.Set("appid", r.apiKey)

	return fmt.Sprintf("%s/%d/%d/%d.png?%s", r.baseURL, r.zoom, x, y, values.Encode())
}

// tileXY converts a coordinate to slippy-map tile indices at zoom.
func tileXY(lat, lng float64, zoom int) (int, int) {
	lat = math.Max(-maxMercatorLatitude, math.Min(maxMercatorLatitude, lat))
	n := math.Exp2(float64(zoom))

	x := int(math.Floor((lng + 180) / 360 * n))
	rad := lat * math.Pi / 180
	y := int(math.Floor((1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2 * n))

	last := int(n) - 1
	return clampTile(x, last), clampTile(y, last)
}

func clampTile(v, last int) int {
	if v < 0 {
		return 0
	}
	if v > last {
		return last
	}
	return v
}
