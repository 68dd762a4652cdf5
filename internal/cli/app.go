package cli

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/weather-outlook/internal/api/http"
	"github.com/i474232898/weather-outlook/internal/config"
	"github.com/i474232898/weather-outlook/internal/logging"
	"github.com/i474232898/weather-outlook/internal/metrics"
	"github.com/i474232898/weather-outlook/internal/places"
	"github.com/i474232898/weather-outlook/internal/scheduler"
	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/internal/weather/providers"
)

// App is the wired application shared by every command.
type App struct {
	Config   *config.AppConfig
	Log      zerolog.Logger
	Registry *prometheus.Registry
	Metrics  metrics.Recorder

	Weather   httpapi.WeatherFetcher
	Warmer    scheduler.Refresher
	Resolver  places.CandidateResolver
	Suggester httpapi.Suggester
}

// Loader builds the App a command runs against.
type Loader func() (*App, error)

// Load reads the configuration and wires the production App.
func Load() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Build(cfg, logging.New(cfg.LogLevel, cfg.LogPretty)), nil
}

// Build wires every component from cfg.
func Build(cfg *config.AppConfig, logger zerolog.Logger) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(reg)

	// Shared HTTP client for outbound weather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	cache := store.New(cfg.CacheSizeMB,
		store.WithLocation(cfg.CacheLocation),
		store.WithMetrics(rec),
	)

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithLanguage(cfg.Language),
		providers.WithMetrics(rec),
	)
	if !provider.HasCredential() {
		logger.Warn().Msg("OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}

	resolver := places.NewResolver(
		places.NewNominatim(places.ClientConfig{
			BaseURL:   cfg.NominatimURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Metrics:   rec,
		}),
		places.NewOpenWeatherGeo(places.ClientConfig{
			BaseURL:   cfg.OpenWeatherGeoURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Metrics:   rec,
		}, cfg.OpenWeatherAPIKey),
		logger,
		places.WithMinLength(cfg.SuggestMinLength),
	)

	svc := weather.NewService(provider, cache, logger)

	return &App{
		Config:    cfg,
		Log:       logger,
		Registry:  reg,
		Metrics:   rec,
		Weather:   svc,
		Warmer:    svc,
		Resolver:  resolver,
		Suggester: places.NewTypeahead(resolver, cfg.SuggestDebounce),
	}
}
