package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	// OpenWeatherAPIKey may be empty; weather lookups then fail with an
	// auth error and suggestions use the primary geocoder only.
	OpenWeatherAPIKey  string `mapstructure:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string `mapstructure:"OPENWEATHER_BASE_URL" validate:"required,url"`
	OpenWeatherGeoURL  string `mapstructure:"OPENWEATHER_GEO_URL" validate:"required,url"`
	NominatimURL       string `mapstructure:"NOMINATIM_URL" validate:"required,url"`
	UserAgent          string `mapstructure:"USER_AGENT" validate:"required"`
	Language           string `mapstructure:"LANGUAGE" validate:"required"`

	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`

	CacheSizeMB   int    `mapstructure:"CACHE_SIZE_MB" validate:"gte=8"`
	CacheTimezone string `mapstructure:"CACHE_TIMEZONE"`

	SuggestMinLength int           `mapstructure:"SUGGEST_MIN_LENGTH" validate:"gte=1"`
	SuggestDebounce  time.Duration `mapstructure:"SUGGEST_DEBOUNCE" validate:"gte=0"`

	// WarmLocations are re-fetched every WarmInterval to keep the cache hot.
	WarmLocations []string      `mapstructure:"WARM_LOCATIONS"`
	WarmInterval  time.Duration `mapstructure:"WARM_INTERVAL" validate:"gte=1m"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	Port string `mapstructure:"PORT" validate:"required,numeric"`

	// CacheLocation is CACHE_TIMEZONE resolved; time.Local when unset.
	CacheLocation *time.Location `mapstructure:"-"`
}

var defaults = map[string]interface{}{
	"OPENWEATHER_API_KEY":  "",
	"OPENWEATHER_BASE_URL": "https://api.openweathermap.org/data/2.5",
	"OPENWEATHER_GEO_URL":  "https://api.openweathermap.org/geo/1.0",
	"NOMINATIM_URL":        "https://nominatim.openstreetmap.org",
	"USER_AGENT":           "HavaDurumuApp/1.0",
	"LANGUAGE":             "tr",
	"HTTP_TIMEOUT":         "10s",
	"CACHE_SIZE_MB":        16,
	"CACHE_TIMEZONE":       "",
	"SUGGEST_MIN_LENGTH":   2,
	"SUGGEST_DEBOUNCE":     "300ms",
	"WARM_LOCATIONS":       "",
	"WARM_INTERVAL":        "30m",
	"LOG_LEVEL":            "info",
	"LOG_PRETTY":           false,
	"PORT":                 "8080",
}

var validate = validator.New()

// Load reads configuration from the environment, after loading envFiles
// (".env" when none are given) into it. Missing files are not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.OpenWeatherAPIKey = strings.TrimSpace(cfg.OpenWeatherAPIKey)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.WarmLocations = splitLocations(cfg.WarmLocations)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := loadLocation(cfg.CacheTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TIMEZONE: %w", err)
	}
	cfg.CacheLocation = loc

	return cfg, nil
}

// splitLocations flattens comma-separated entries and drops blanks.
func splitLocations(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func loadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
