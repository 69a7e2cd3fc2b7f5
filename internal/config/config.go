package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-bot/internal/common"
)

type AppConfig struct {
	// Discord credentials. The bot is skipped when Token is empty.
	DiscordToken   string
	DiscordAppID   string
	DiscordGuildID string // commands are registered globally when empty

	Geocoder              string `validate:"oneof=opencage google"`
	OpenCageAPIKey        string
	GoogleGeocodingAPIKey string
	OpenWeatherMapAPIKey  string // enables the radar tile when set

	HTTPTimeout    time.Duration `validate:"gt=0"`
	CommandTimeout time.Duration `validate:"gt=0"`
	ForecastDays   int           `validate:"min=1,max=16"`

	// Outbound limits shared by every provider.
	ProviderRPS        float64 `validate:"gte=0"`
	ProviderBurst      int     `validate:"gte=0"`
	ProviderMaxRetries int     `validate:"gte=0"`

	// Watch list sampled by the scheduler.
	WatchLocations []string
	FetchInterval  time.Duration `validate:"gt=0"`

	// In-memory store retention.
	StoreMaxHistory int           // max observations per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of observations (0 = unlimited)

	Port string `validate:"required"`

	RoleBlockedPermissions []string
	RolesPerPage           int `validate:"min=1,max=25"`
	RoleExclusionLog       string

	IconBaseURL string `validate:"omitempty,url"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.DiscordToken = common.FirstNonEmpty(os.Getenv("DISCORD_TOKEN"), os.Getenv("TOKEN"))
	cfg.DiscordAppID = common.FirstNonEmpty(os.Getenv("DISCORD_APP_ID"), os.Getenv("CLIENT_ID"))
	cfg.DiscordGuildID = os.Getenv("DISCORD_GUILD_ID")

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", "opencage"))
	cfg.OpenCageAPIKey = common.FirstNonEmpty(os.Getenv("OPENCAGE_API_KEY"), os.Getenv("OPENCAGEAPIKEY"))
	cfg.GoogleGeocodingAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")
	cfg.OpenWeatherMapAPIKey = common.FirstNonEmpty(os.Getenv("OPENWEATHERMAP_API_KEY"), os.Getenv("OPENWEATHERMAPAPIKEY"))

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CommandTimeout, err = getenvDuration("COMMAND_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)

	rps, err := strconv.ParseFloat(getenvDefault("PROVIDER_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: %w", err)
	}
	cfg.ProviderRPS = rps
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)

	cfg.WatchLocations = splitList(os.Getenv("WATCH_LOCATIONS"), ";")
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.RoleBlockedPermissions = splitList(getenvDefault("ROLE_BLOCKED_PERMISSIONS", "Administrator"), ",")
	cfg.RolesPerPage = getenvInt("ROLES_PER_PAGE", 25)
	cfg.RoleExclusionLog = getenvDefault("ROLE_EXCLUSION_LOG", "excluded_roles.jsonl")

	cfg.IconBaseURL = strings.TrimRight(os.Getenv("ICON_BASE_URL"), "/")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DiscordToken != "" && cfg.DiscordAppID == "" {
		return nil, fmt.Errorf("invalid configuration: DISCORD_APP_ID is required when DISCORD_TOKEN is set")
	}
	return cfg, nil
}

// GeocoderAPIKey returns the key for the selected geocoding backend.
func (c *AppConfig) GeocoderAPIKey() string {
	if c.Geocoder == "google" {
		return c.GoogleGeocodingAPIKey
	}
	return c.OpenCageAPIKey
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("INFO: ignoring invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
