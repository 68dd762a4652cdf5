package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/store"
)

type fakeProvider struct {
	mu sync.Mutex

	noCredential bool
	current      Snapshot
	currentErr   error
	forecasts    map[int][]ForecastSample
	forecastErr  error

	calls []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) HasCredential() bool { return !f.noCredential }

func (f *fakeProvider) Current(_ context.Context, query string) (Snapshot, error) {
	f.record("current:" + query)
	if f.currentErr != nil {
		return Snapshot{}, f.currentErr
	}
	return f.current, nil
}

func (f *fakeProvider) Forecast(_ context.Context, query string, count int) ([]ForecastSample, error) {
	f.record(fmt.Sprintf("forecast:%s:%d", query, count))
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.forecasts[count], nil
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

var observed = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func istanbulSnapshot() Snapshot {
	return Snapshot{
		LocationName:         "Istanbul",
		CountryCode:          "TR",
		Temp:                 20,
		TempMin:              18,
		TempMax:              22,
		Humidity:             85,
		CloudCoveragePercent: intPtr(75),
		Weather:              WeatherCondition{Main: ConditionClouds, Description: "kapalı"},
		ObservedAt:           observed.Unix(),
	}
}

func newTestService(p Provider) (*Service, *testClock) {
	clock := &testClock{now: observed}
	cache := store.New(8, store.WithClock(clock), store.WithLocation(time.UTC))
	return NewService(p, cache, zerolog.Nop()), clock
}

func TestService_Fetch_MissingCredential(t *testing.T) {
	p := &fakeProvider{noCredential: true}
	svc, _ := newTestService(p)

	_, err := svc.Fetch(context.Background(), "Istanbul")

	require.ErrorIs(t, err, ErrAuth)
	assert.Zero(t, p.callCount())
}

func TestService_Fetch_EmptyLocation(t *testing.T) {
	p := &fakeProvider{current: istanbulSnapshot()}
	svc, _ := newTestService(p)

	_, err := svc.Fetch(context.Background(), "   ")

	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, p.callCount())
}

func TestService_Fetch_IstanbulWithoutForecast(t *testing.T) {
	p := &fakeProvider{
		current:     istanbulSnapshot(),
		forecastErr: fmt.Errorf("%w: boom", ErrNetwork),
	}
	svc, _ := newTestService(p)

	snap, err := svc.Fetch(context.Background(), "Istanbul")

	require.NoError(t, err)
	assert.Empty(t, snap.Forecast)
	assert.Empty(t, snap.DailyForecast)
	assert.Equal(t, 70, snap.PrecipitationPercent)
	assert.Contains(t, snap.Summary, "nemli")
	assert.Equal(t, "clouds", snap.Theme)
}

func TestService_Fetch_EnrichesWithForecasts(t *testing.T) {
	near := []ForecastSample{
		{Epoch: observed.Add(3 * time.Hour).Unix(), Temp: 19, PrecipitationProbability: 0.4},
		{Epoch: observed.Add(6 * time.Hour).Unix(), Temp: 18, PrecipitationProbability: 0.2},
	}
	var extent []ForecastSample
	for i := 0; i < 40; i++ {
		ts := observed.Add(time.Duration(i+1) * 3 * time.Hour)
		extent = append(extent, ForecastSample{Epoch: ts.Unix(), Temp: 15, PrecipitationProbability: 0.1})
	}

	p := &fakeProvider{
		current:   istanbulSnapshot(),
		forecasts: map[int][]ForecastSample{5: near, 40: extent},
	}
	svc, _ := newTestService(p)

	snap, err := svc.Fetch(context.Background(), "Istanbul, TR")

	require.NoError(t, err)
	assert.Equal(t, near, snap.Forecast)
	require.NotEmpty(t, snap.DailyForecast)
	assert.LessOrEqual(t, len(snap.DailyForecast), MaxDailyEntries)
	assert.Equal(t, "2026-10-19", snap.DailyForecast[0].Date)
	assert.Equal(t, 30, snap.PrecipitationPercent)
}

func TestService_Fetch_CurrentCallPrecedesEnrichment(t *testing.T) {
	p := &fakeProvider{current: istanbulSnapshot()}
	svc, _ := newTestService(p)

	_, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)

	require.Len(t, p.calls, 3)
	assert.Equal(t, "current:Istanbul", p.calls[0])
	assert.ElementsMatch(t, []string{"forecast:Istanbul:5", "forecast:Istanbul:40"}, p.calls[1:])
}

func TestService_Fetch_CurrentErrorPropagates(t *testing.T) {
	for _, want := range []error{ErrNotFound, ErrAuth, ErrRateLimited, ErrNetwork} {
		t.Run(want.Error(), func(t *testing.T) {
			p := &fakeProvider{currentErr: want}
			svc, _ := newTestService(p)

			_, err := svc.Fetch(context.Background(), "Atlantis")
			require.ErrorIs(t, err, want)

			// Nothing cached, nothing enriched.
			assert.Equal(t, 1, p.callCount())
			_, err = svc.Fetch(context.Background(), "Atlantis")
			require.Error(t, err)
			assert.Equal(t, 2, p.callCount())
		})
	}
}

func TestService_Fetch_ServesFromCache(t *testing.T) {
	p := &fakeProvider{
		current:   istanbulSnapshot(),
		forecasts: map[int][]ForecastSample{40: {{Epoch: observed.Unix(), Temp: 20}}},
	}
	svc, clock := newTestService(p)

	first, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	calls := p.callCount()

	clock.now = clock.now.Add(2 * time.Hour)
	second, err := svc.Fetch(context.Background(), "  ISTANBUL ")
	require.NoError(t, err)

	assert.Equal(t, calls, p.callCount(), "cache hit must not call upstream")
	assert.Equal(t, first, second)
}

func TestService_Fetch_RefetchesOnNewDay(t *testing.T) {
	p := &fakeProvider{
		current:   istanbulSnapshot(),
		forecasts: map[int][]ForecastSample{40: {{Epoch: observed.Unix(), Temp: 20}}},
	}
	svc, clock := newTestService(p)
	clock.now = time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)

	_, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	calls := p.callCount()

	clock.now = clock.now.Add(90 * time.Minute)
	_, err = svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)

	assert.Equal(t, 2*calls, p.callCount())
}

func TestService_Fetch_UnenrichedEntryUsesCurrentTTL(t *testing.T) {
	p := &fakeProvider{
		current:     istanbulSnapshot(),
		forecastErr: errors.New("forecast down"),
	}
	svc, clock := newTestService(p)

	_, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	calls := p.callCount()

	clock.now = clock.now.Add(5 * time.Minute)
	_, err = svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	assert.Equal(t, calls, p.callCount())

	clock.now = clock.now.Add(6 * time.Minute)
	_, err = svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	assert.Equal(t, 2*calls, p.callCount())
}

func fullForecast() map[int][]ForecastSample {
	out := map[int][]ForecastSample{}
	for _, n := range []int{5, 40} {
		samples := make([]ForecastSample, 0, n)
		for i := 0; i < n; i++ {
			samples = append(samples, ForecastSample{
				Epoch:                    observed.Add(time.Duration(i+1) * 3 * time.Hour).Unix(),
				Temp:                     14 + float64(i%8),
				TempMin:                  12 + float64(i%8),
				TempMax:                  16 + float64(i%8),
				PrecipitationProbability: float64(i%10) / 10,
				CloudCoveragePercent:     intPtr(40 + i),
				Weather:                  WeatherCondition{Main: ConditionRain, Description: "hafif yağmur"},
			})
		}
		out[n] = samples
	}
	return out
}

func TestService_Fetch_CachesEnrichedSnapshotAtMinimumSize(t *testing.T) {
	p := &fakeProvider{current: istanbulSnapshot(), forecasts: fullForecast()}
	clock := &testClock{now: observed}
	cache := store.New(store.MinSizeMB, store.WithClock(clock), store.WithLocation(time.UTC))
	svc := NewService(p, cache, zerolog.Nop())

	first, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	require.Len(t, first.Forecast, 5)
	require.NotEmpty(t, first.DailyForecast)
	calls := p.callCount()

	second, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)

	assert.Equal(t, calls, p.callCount(), "second fetch must be a cache hit")
	assert.Equal(t, first, second)
}

func TestService_Refresh_BypassesCache(t *testing.T) {
	p := &fakeProvider{current: istanbulSnapshot(), forecasts: fullForecast()}
	svc, _ := newTestService(p)

	_, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	calls := p.callCount()

	p.current.Temp = 25
	refreshed, err := svc.Refresh(context.Background(), "Istanbul")
	require.NoError(t, err)
	assert.Equal(t, 2*calls, p.callCount())
	assert.Equal(t, 25.0, refreshed.Temp)

	cached, err := svc.Fetch(context.Background(), "istanbul")
	require.NoError(t, err)
	assert.Equal(t, 2*calls, p.callCount())
	assert.Equal(t, 25.0, cached.Temp)
}

func TestService_Refresh_KeepsCachedEntryOnFailure(t *testing.T) {
	p := &fakeProvider{current: istanbulSnapshot(), forecasts: fullForecast()}
	svc, _ := newTestService(p)

	first, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)

	p.currentErr = fmt.Errorf("%w: 503", ErrNetwork)
	_, err = svc.Refresh(context.Background(), "Istanbul")
	require.ErrorIs(t, err, ErrNetwork)

	p.currentErr = nil
	calls := p.callCount()
	cached, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	assert.Equal(t, calls, p.callCount())
	assert.Equal(t, first, cached)
}
