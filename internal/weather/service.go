package weather

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-outlook/internal/common"
	"github.com/i474232898/weather-outlook/internal/store"
)

const (
	// precipitationSamples feeds EstimatePrecipitation (~15 hours).
	precipitationSamples = 5
	// dailySamples is the free-tier maximum (~5 days of 3-hour samples).
	dailySamples = 40
)

// Service fetches, enriches and caches weather snapshots.
type Service struct {
	provider Provider
	cache    Cache
	log      zerolog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, cache Cache, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		log:      logger.With().Str("component", "weather").Logger(),
	}
}

// Fetch returns the enriched snapshot for a free-text place name. Only the
// current-conditions call can fail the request; forecast enrichment is
// best-effort and leaves its field empty on failure.
func (s *Service) Fetch(ctx context.Context, locationName string) (Snapshot, error) {
	return s.fetch(ctx, locationName, true)
}

// Refresh is Fetch without the cache read: it always goes upstream and
// replaces whatever is cached for the location.
func (s *Service) Refresh(ctx context.Context, locationName string) (Snapshot, error) {
	return s.fetch(ctx, locationName, false)
}

func (s *Service) fetch(ctx context.Context, locationName string, useCache bool) (Snapshot, error) {
	if !s.provider.HasCredential() {
		return Snapshot{}, fmt.Errorf("%w: no api key configured", ErrAuth)
	}

	query := strings.TrimSpace(locationName)
	if query == "" {
		return Snapshot{}, fmt.Errorf("%w: empty location name", ErrNotFound)
	}
	key := common.NormalizeKey(query)

	if !useCache {
		s.log.Debug().Str("location", key).Msg("refreshing snapshot")
	} else if snap, ok := s.cached(key); ok {
		s.log.Debug().Str("location", key).Msg("serving snapshot from cache")
		return snap, nil
	}

	snap, err := s.provider.Current(ctx, query)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch current weather for %q: %w", query, err)
	}

	var (
		wg     sync.WaitGroup
		near   []ForecastSample
		extent []ForecastSample
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		near = s.forecast(ctx, query, precipitationSamples)
	}()
	go func() {
		defer wg.Done()
		extent = s.forecast(ctx, query, dailySamples)
	}()
	wg.Wait()

	if len(near) > 0 {
		snap.Forecast = near
	}
	if len(extent) > 0 {
		base := snap
		snap.DailyForecast = AggregateDaily(extent, &base)
	}

	snap.PrecipitationPercent = EstimatePrecipitation(snap)
	snap.Summary = Describe(snap)
	snap.Theme = Theme(snap.Weather.Main)

	s.store(key, snap)
	return snap, nil
}

// forecast runs one enrichment call; failures are logged and absorbed.
func (s *Service) forecast(ctx context.Context, query string, count int) []ForecastSample {
	samples, err := s.provider.Forecast(ctx, query, count)
	if err != nil {
		s.log.Warn().Err(err).Str("location", query).Int("cnt", count).
			Msg("forecast enrichment failed; continuing without it")
		return nil
	}
	return samples
}

// cached returns a fresh cached snapshot. Snapshots lacking a daily forecast
// also have to satisfy the shorter current-conditions TTL so a failed
// enrichment is retried sooner.
func (s *Service) cached(key string) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}

	payload, ok := s.cache.Get(key, store.PurposeDaily)
	if !ok {
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.log.Warn().Err(err).Str("location", key).Msg("discarding undecodable cache entry")
		return Snapshot{}, false
	}

	if len(snap.DailyForecast) == 0 {
		if _, ok := s.cache.Get(key, store.PurposeCurrent); !ok {
			return Snapshot{}, false
		}
	}
	return snap, true
}

func (s *Service) store(key string, snap Snapshot) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Str("location", key).Msg("failed to encode snapshot for cache")
		return
	}
	if err := s.cache.Set(key, payload, store.PurposeDaily); err != nil {
		s.log.Warn().Err(err).Str("location", key).Int("bytes", len(payload)).Msg("failed to cache snapshot")
	}
}
