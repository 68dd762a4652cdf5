package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/metrics"
	"github.com/i474232898/weather-outlook/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultLanguage           = "tr"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	language string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// Option configures an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at a different API root.
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage sets the "lang" parameter of every request.
func WithLanguage(lang string) Option {
	return func(p *OpenWeatherProvider) { p.language = lang }
}

// WithBackoff overrides the retry policy for transient failures.
func WithBackoff(b BackoffConfig) Option {
	return func(p *OpenWeatherProvider) { p.httpCfg.Backoff = b }
}

// WithMetrics records upstream calls.
func WithMetrics(m metrics.Recorder) Option {
	return func(p *OpenWeatherProvider) { p.httpCfg.Metrics = m }
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  DefaultOpenWeatherBaseURL,
		language: DefaultLanguage,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
			Metrics: metrics.Noop(),
		},
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) HasCredential() bool {
	return p.apiKey != "" && p.apiKey != "YOUR_API_KEY_HERE"
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrentPayload struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *int `json:"visibility"`
	Clouds     *struct {
		All int `json:"all"`
	} `json:"clouds"`
	Weather []owmCondition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Dt       int64 `json:"dt"`
	Timezone int   `json:"timezone"`
}

type owmForecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Pop     float64        `json:"pop"`
		Clouds  *struct {
			All int `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
}

// Current fetches current conditions from /weather.
func (p *OpenWeatherProvider) Current(ctx context.Context, query string) (weather.Snapshot, error) {
	if !p.HasCredential() {
		return weather.Snapshot{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrAuth)
	}

	var payload owmCurrentPayload
	if err := p.get(ctx, "/weather", p.values(query), &payload); err != nil {
		return weather.Snapshot{}, err
	}

	snap := weather.Snapshot{
		LocationName: payload.Name,
		CountryCode:  payload.Sys.Country,
		Coordinates: weather.Coordinates{
			Lat: payload.Coord.Lat,
			Lon: payload.Coord.Lon,
		},
		Temp:             payload.Main.Temp,
		FeelsLike:        payload.Main.FeelsLike,
		TempMin:          payload.Main.TempMin,
		TempMax:          payload.Main.TempMax,
		Humidity:         payload.Main.Humidity,
		Pressure:         payload.Main.Pressure,
		WindSpeed:        payload.Wind.Speed,
		VisibilityMeters: payload.Visibility,
		Weather:          mapOpenWeatherCondition(payload.Weather),
		Sunrise:          payload.Sys.Sunrise,
		Sunset:           payload.Sys.Sunset,
		ObservedAt:       payload.Dt,
		UTCOffsetSeconds: payload.Timezone,
	}
	if payload.Clouds != nil {
		all := payload.Clouds.All
		snap.CloudCoveragePercent = &all
	}
	return snap, nil
}

// Forecast fetches up to count 3-hour samples from /forecast.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, query string, count int) ([]weather.ForecastSample, error) {
	if !p.HasCredential() {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrAuth)
	}

	values := p.values(query)
	if count > 0 {
		values.Set("cnt", strconv.Itoa(count))
	}

	var payload owmForecastPayload
	if err := p.get(ctx, "/forecast", values, &payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Epoch:                    item.Dt,
			Temp:                     item.Main.Temp,
			TempMin:                  item.Main.TempMin,
			TempMax:                  item.Main.TempMax,
			Weather:                  mapOpenWeatherCondition(item.Weather),
			PrecipitationProbability: item.Pop,
		}
		if item.Clouds != nil {
			all := item.Clouds.All
			s.CloudCoveragePercent = &all
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (p *OpenWeatherProvider) values(query string) url.Values {
	values := url.Values{}
	values.Set("q", query)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if p.language != "" {
		values.Set("lang", p.language)
	}
	return values
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}
	if err := statusError(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", weather.ErrNetwork, path, err)
	}
	return nil
}

func mapOpenWeatherCondition(items []owmCondition) weather.WeatherCondition {
	if len(items) == 0 {
		return weather.WeatherCondition{}
	}
	return weather.WeatherCondition{
		Main:        weather.Condition(items[0].Main),
		Description: items[0].Description,
		Icon:        items[0].Icon,
	}
}
