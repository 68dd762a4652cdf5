package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-outlook/internal/weather"
)

const fetchTimeout = 30 * time.Second

// Refresher is satisfied by *weather.Service.
type Refresher interface {
	Refresh(ctx context.Context, locationName string) (weather.Snapshot, error)
}

// Scheduler periodically fetches weather for configured locations so that
// user lookups for them are served from cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	locations []string
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler.
func New(locations []string, interval time.Duration, refresher Refresher, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		locations: locations,
		interval:  interval,
		log:       logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the warm-up job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info().Msg("no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 30 * time.Minute
	}

	if _, err := s.scheduler.Every(interval).Do(s.Warm, context.Background()); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm re-fetches every configured location once, in parallel, replacing
// cached entries even when they are still fresh. A failed refresh leaves the
// previous entry in place.
func (s *Scheduler) Warm(ctx context.Context) {
	s.log.Debug().Int("locations", len(s.locations)).Msg("running cache warm-up")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			if _, err := s.refresher.Refresh(ctx, loc); err != nil {
				s.log.Warn().Err(err).Str("location", loc).Msg("warm-up refresh failed")
			}
		}(loc)
	}
	wg.Wait()

	s.log.Debug().Msg("cache warm-up completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
