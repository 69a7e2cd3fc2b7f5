package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-bot/internal/api/http"
	"github.com/i474232898/weather-bot/internal/bot"
	"github.com/i474232898/weather-bot/internal/config"
	"github.com/i474232898/weather-bot/internal/metrics"
	"github.com/i474232898/weather-bot/internal/roles"
	"github.com/i474232898/weather-bot/internal/scheduler"
	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/i474232898/weather-bot/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	// Prometheus collectors for outbound API calls, served at /metrics.
	apiMetrics := metrics.New()

	opts := providers.Options{
		Client:     httpClient,
		RPS:        cfg.ProviderRPS,
		Burst:      cfg.ProviderBurst,
		MaxRetries: cfg.ProviderMaxRetries,
		Recorder:   apiMetrics,
	}

	var geocoder weather.Geocoder
	switch cfg.Geocoder {
	case "google":
		geocoder = providers.NewGoogleGeocoder(opts, cfg.GoogleGeocodingAPIKey)
	default:
		geocoder = providers.NewOpenCageGeocoder(opts, cfg.OpenCageAPIKey)
	}
	if cfg.GeocoderAPIKey() == "" {
		log.Printf("INFO: no API key for the %s geocoder; location lookups will fail", cfg.Geocoder)
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	serviceOpts := []weather.Option{weather.WithForecastDays(cfg.ForecastDays)}
	if cfg.OpenWeatherMapAPIKey != "" {
		serviceOpts = append(serviceOpts, weather.WithRadar(providers.NewOpenWeatherRadar(cfg.OpenWeatherMapAPIKey)))
	}

	// Core service orchestrating geocoder, weather source and store.
	service := weather.NewService(geocoder, providers.NewOpenMeteoProvider(opts), memStore, serviceOpts...)

	// Scheduler that periodically samples the watch list.
	sched := scheduler.New(cfg.WatchLocations, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, cfg.CommandTimeout, apiMetrics)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	if cfg.DiscordToken != "" {
		blocked, err := roles.ParsePermissions(cfg.RoleBlockedPermissions)
		if err != nil {
			log.Fatalf("invalid ROLE_BLOCKED_PERMISSIONS: %v", err)
		}

		b, err := bot.New(bot.Config{
			Token:          cfg.DiscordToken,
			AppID:          cfg.DiscordAppID,
			GuildID:        cfg.DiscordGuildID,
			CommandTimeout: cfg.CommandTimeout,
			IconBaseURL:    cfg.IconBaseURL,
		}, service, roles.NewPolicy(blocked, cfg.RolesPerPage), roles.NewExclusionLog(cfg.RoleExclusionLog))
		if err != nil {
			log.Fatalf("failed to create bot: %v", err)
		}
		if err := b.Open(); err != nil {
			log.Fatalf("failed to start bot: %v", err)
		}
		defer b.Close()
	} else {
		log.Println("INFO: DISCORD_TOKEN not set; running the HTTP API only")
	}

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
