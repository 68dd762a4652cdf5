package places

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-outlook/internal/metrics"
)

const DefaultOpenWeatherGeoURL = "https://api.openweathermap.org/geo/1.0"

// OpenWeatherGeo queries the OpenWeatherMap direct geocoding API. Results are
// taken as-is, without type filtering.
type OpenWeatherGeo struct {
	client  *resty.Client
	apiKey  string
	metrics metrics.Recorder
}

func NewOpenWeatherGeo(cfg ClientConfig, apiKey string) *OpenWeatherGeo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenWeatherGeoURL
	}
	return &OpenWeatherGeo{
		client:  newRestClient(cfg),
		apiKey:  strings.TrimSpace(apiKey),
		metrics: recorderOf(cfg),
	}
}

func (g *OpenWeatherGeo) Name() string { return "openweathermap-geo" }

type owmGeoPlace struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Search returns up to MaxCandidates places. Without an API key it returns
// nothing and makes no request.
func (g *OpenWeatherGeo) Search(ctx context.Context, query string) ([]Candidate, error) {
	if g.apiKey == "" || g.apiKey == "YOUR_API_KEY_HERE" {
		return nil, nil
	}

	var places []owmGeoPlace
	err := getJSON(ctx, g.client, g.metrics, g.Name(), "/direct", map[string]string{
		"q":     query,
		"limit": strconv.Itoa(MaxCandidates),
		"appid": g.apiKey,
	}, &places)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(places))
	for _, p := range places {
		// The geo API reports ISO codes in "country".
		out = append(out, newCandidate(p.Name, p.Country, p.Country, p.State, 0))
	}
	return out, nil
}
