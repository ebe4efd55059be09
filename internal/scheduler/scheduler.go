package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/tuannm-dev/weather-web/internal/cache"
	"github.com/tuannm-dev/weather-web/internal/observability"
)

// SweepScheduler periodically evicts expired cache entries so memory stays
// bounded even for cities that are never queried again.
type SweepScheduler struct {
	scheduler *gocron.Scheduler
	store     *cache.Store
	interval  time.Duration
	logger    *zap.SugaredLogger
	metrics   *observability.Metrics
}

// New creates a sweep scheduler for the given cache store.
func New(store *cache.Store, interval time.Duration, logger *zap.SugaredLogger, metrics *observability.Metrics) *SweepScheduler {
	if interval <= 0 {
		interval = cache.DefaultSweepInterval
	}
	return &SweepScheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *SweepScheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.sweep)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *SweepScheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *SweepScheduler) sweep() {
	removed := s.store.DeleteExpired()
	if removed > 0 {
		s.metrics.CacheSweepEvicted.Add(float64(removed))
		s.logger.Debugw("cache sweep completed", "evicted", removed)
	}
}
