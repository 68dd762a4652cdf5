package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/places"
	"github.com/i474232898/weather-outlook/internal/weather"
)

type stubFetcher struct {
	snap  weather.Snapshot
	err   error
	asked []string
}

func (s *stubFetcher) Fetch(_ context.Context, name string) (weather.Snapshot, error) {
	s.asked = append(s.asked, name)
	return s.snap, s.err
}

type stubSuggester struct {
	out []places.Candidate
	err error
}

func (s *stubSuggester) Suggest(context.Context, string) ([]places.Candidate, error) {
	return s.out, s.err
}

type requestCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *requestCounter) IncCacheHits(string) {}
func (r *requestCounter) IncCacheMisses(string) {}
func (r *requestCounter) IncUpstreamRequests(string, int) {}
func (r *requestCounter) ObserveUpstreamDuration(string, time.Duration) {}
func (r *requestCounter) IncRequestsTotal(route string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[fmt.Sprintf("%s %d", route, status)]++
}

func newTestApp(h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	h.Log = zerolog.Nop()
	RegisterRoutes(app, h)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &decoded), string(body))
	}
	return resp, decoded
}

func TestWeatherRoute_MissingCity(t *testing.T) {
	fetcher := &stubFetcher{}
	app := newTestApp(Handlers{Weather: fetcher, Suggester: &stubSuggester{}})

	resp, body := get(t, app, "/api/v1/weather")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["error"])
	assert.Empty(t, fetcher.asked)
}

func TestWeatherRoute_ReturnsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{snap: weather.Snapshot{
		LocationName:         "Istanbul",
		CountryCode:          "TR",
		Temp:                 20,
		Humidity:             85,
		PrecipitationPercent: 70,
		Summary:              "Kapalı. Yağmur ihtimali %70. Hava oldukça nemli.",
	}}
	app := newTestApp(Handlers{Weather: fetcher, Suggester: &stubSuggester{}})

	resp, body := get(t, app, "/api/v1/weather?city="+url.QueryEscape("Istanbul, TR"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Istanbul, TR"}, fetcher.asked)
	assert.Equal(t, "Istanbul", body["name"])
	assert.Equal(t, "TR", body["country"])
	assert.EqualValues(t, 70, body["precipitationPercent"])
}

func TestWeatherRoute_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("fetch: %w", weather.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("fetch: %w", weather.ErrAuth), http.StatusUnauthorized},
		{weather.ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("%w: 503", weather.ErrNetwork), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := newTestApp(Handlers{Weather: &stubFetcher{err: tt.err}, Suggester: &stubSuggester{}})

			resp, body := get(t, app, "/api/v1/weather?city=Atlantis")

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, weather.UserMessage(tt.err), body["message"])
		})
	}
}

func TestPlacesRoute(t *testing.T) {
	suggester := &stubSuggester{out: []places.Candidate{{
		Name:        "Ankara",
		Country:     "Türkiye",
		CountryCode: "TR",
		DisplayName: "Ankara",
		FullName:    "Ankara, Türkiye",
		SearchQuery: "Ankara, TR",
	}}}
	app := newTestApp(Handlers{Weather: &stubFetcher{}, Suggester: suggester})

	resp, body := get(t, app, "/api/v1/places?q=ank")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := body["suggestions"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Ankara, TR", list[0].(map[string]interface{})["searchQuery"])
}

func TestPlacesRoute_EmptyIsAList(t *testing.T) {
	app := newTestApp(Handlers{Weather: &stubFetcher{}, Suggester: &stubSuggester{}})

	resp, body := get(t, app, "/api/v1/places?q=a")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{}, body["suggestions"])
}

func TestPlacesRoute_Superseded(t *testing.T) {
	app := newTestApp(Handlers{Weather: &stubFetcher{}, Suggester: &stubSuggester{err: places.ErrSuperseded}})

	resp, body := get(t, app, "/api/v1/places?q=ank")

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, body)
}

func TestRoutes_CountRequests(t *testing.T) {
	rec := &requestCounter{}
	app := newTestApp(Handlers{
		Weather:   &stubFetcher{err: weather.ErrNotFound},
		Suggester: &stubSuggester{},
		Metrics:   rec,
	})

	get(t, app, "/api/v1/weather?city=Atlantis")
	get(t, app, "/api/v1/places?q=at")

	assert.Equal(t, 1, rec.calls["/api/v1/weather 404"])
	assert.Equal(t, 1, rec.calls["/api/v1/places 200"])
}
