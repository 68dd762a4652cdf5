package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/weather"
)

type recordingRefresher struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]bool
}

func (f *recordingRefresher) Refresh(ctx context.Context, name string) (weather.Snapshot, error) {
	if _, ok := ctx.Deadline(); !ok {
		return weather.Snapshot{}, errors.New("refresh without deadline")
	}

	f.mu.Lock()
	f.fetched = append(f.fetched, name)
	f.mu.Unlock()

	if f.fail[name] {
		return weather.Snapshot{}, weather.ErrNotFound
	}
	return weather.Snapshot{LocationName: name}, nil
}

func (f *recordingRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

func TestScheduler_WarmFetchesEveryLocation(t *testing.T) {
	f := &recordingRefresher{fail: map[string]bool{"Atlantis": true}}
	s := New([]string{"Istanbul", "Atlantis", "Ankara"}, time.Hour, f, zerolog.Nop())

	s.Warm(context.Background())

	sort.Strings(f.fetched)
	assert.Equal(t, []string{"Ankara", "Atlantis", "Istanbul"}, f.fetched)
}

func TestScheduler_StartWithoutLocations(t *testing.T) {
	f := &recordingRefresher{}
	s := New(nil, time.Minute, f, zerolog.Nop())

	require.NoError(t, s.Start())
	s.Stop()

	assert.Zero(t, f.count())
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	f := &recordingRefresher{}
	s := New([]string{"Istanbul"}, time.Hour, f, zerolog.Nop())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return f.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

type countingProvider struct{ current atomic.Int32 }

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) HasCredential() bool { return true }

func (p *countingProvider) Current(_ context.Context, query string) (weather.Snapshot, error) {
	p.current.Add(1)
	return weather.Snapshot{LocationName: query, Temp: 20}, nil
}

func (p *countingProvider) Forecast(_ context.Context, _ string, count int) ([]weather.ForecastSample, error) {
	return []weather.ForecastSample{{Epoch: time.Now().Unix(), Temp: 18}}, nil
}

func TestScheduler_WarmRefreshesFreshEntries(t *testing.T) {
	p := &countingProvider{}
	svc := weather.NewService(p, store.New(store.MinSizeMB), zerolog.Nop())
	s := New([]string{"Istanbul"}, time.Hour, svc, zerolog.Nop())

	s.Warm(context.Background())
	s.Warm(context.Background())
	assert.EqualValues(t, 2, p.current.Load())

	// User lookups are still served from what the warm-up stored.
	_, err := svc.Fetch(context.Background(), "Istanbul")
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.current.Load())
}
