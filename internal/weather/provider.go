package weather

import (
	"context"

	"github.com/i474232898/weather-outlook/internal/store"
)

// Provider abstracts the upstream weather API (OpenWeatherMap).
type Provider interface {
	Name() string
	// HasCredential reports whether an API key is configured.
	HasCredential() bool
	// Current fetches current conditions for a free-text place name.
	Current(ctx context.Context, query string) (Snapshot, error)
	// Forecast fetches up to count 3-hour samples, ascending by time.
	Forecast(ctx context.Context, query string, count int) ([]ForecastSample, error)
}

// Cache is the contract of the purpose-aware cache store.
type Cache interface {
	Get(key string, purpose store.Purpose) ([]byte, bool)
	Set(key string, payload []byte, purpose store.Purpose) error
}
