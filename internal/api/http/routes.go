package httpapi

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
)

var validate = validator.New()

// WeatherService is the part of *weather.Service the routes depend on.
type WeatherService interface {
	Current(ctx context.Context, query string) (weather.Report, error)
	Forecast(ctx context.Context, query string, days int) (weather.Coordinate, []weather.DailyObservation, error)
	GetLatest(query string) (weather.Observation, error)
	GetRange(query string, from, to time.Time) ([]weather.Observation, error)
	Locations() []string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. timeout bounds
// each live lookup; zero leaves only the HTTP client timeout.
func RegisterRoutes(app *fiber.App, service WeatherService, timeout time.Duration) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		report, err := service.Current(ctx, q.Location)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(report)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		coord, days, err := service.Forecast(ctx, req.Location.Location, req.Days)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(fiber.Map{
			"location": coord,
			"days":     days,
		})
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		q, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		obs, err := service.GetLatest(q.Location)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(obs)
	})

	v1.Get("/weather/locations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"locations": service.Locations(),
		})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		observations, err := service.GetRange(req.Location.Location, req.From, req.To)
		if err != nil {
			return mapError(c, err)
		}

		return c.JSON(fiber.Map{
			"location":     req.Location.Location,
			"from":         req.From,
			"to":           req.To,
			"observations": observations,
			"summary":      weather.Summarize(observations),
		})
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// mapError turns service errors into fixed client-facing messages; details
// are only logged.
func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, "location is required")
	case errors.Is(err, weather.ErrInvalidDays):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
	}

	log.Printf("ERROR: [%s] %s %s: %v", c.GetRespHeader(fiber.HeaderXRequestID), c.Method(), c.Path(), err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "weather provider timed out")
	case errors.Is(err, weather.ErrEmptySeries):
		return fiber.NewError(fiber.StatusBadGateway, "weather data not available")
	case errors.Is(err, weather.ErrUpstream):
		return fiber.NewError(fiber.StatusBadGateway, "unable to retrieve weather information")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

func requestContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// locationQuery holds the free-text location parameter.
type locationQuery struct {
	Location string `validate:"required"`
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.Location = strings.TrimSpace(c.Query("location"))

	if err := validate.Struct(q); err != nil {
		return q, errors.New("location query parameter is required")
	}

	return q, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location locationQuery
	Days     int `validate:"required,min=1,max=7"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	f.Location = loc

	raw := c.Query("days")
	if raw == "" {
		return errors.New("days query parameter is required")
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("days must be an integer")
	}
	f.Days = days
	return nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
