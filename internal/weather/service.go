package weather

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tuannm-dev/weather-web/internal/cache"
	"github.com/tuannm-dev/weather-web/internal/observability"
)

// Client is the upstream provider contract the aggregation service depends on.
type Client interface {
	FetchCurrent(ctx context.Context, city string) (CurrentPayload, error)
	FetchForecast(ctx context.Context, city string) (ForecastPayload, error)
}

// Service aggregates the current, hourly, and daily sub-resources for a city.
// It is the sole owner of the cache and the upstream client; normalizers stay
// pure functions underneath it.
type Service struct {
	cache   *cache.Store
	client  Client
	logger  *zap.SugaredLogger
	metrics *observability.Metrics
}

// NewService creates the aggregation service around an injected cache and
// upstream client.
func NewService(store *cache.Store, client Client, logger *zap.SugaredLogger, metrics *observability.Metrics) *Service {
	return &Service{
		cache:   store,
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// GetWeatherData returns the aggregated weather view for a city. The three
// sub-fetches are launched concurrently before any is joined, so their
// network latencies overlap; each is cached independently under the
// normalized city key. A failure in one sub-fetch fails the whole aggregate,
// no partial result ever leaks through. When several sub-fetches fail with
// different codes, the current-weather failure wins, then hourly, then daily.
func (s *Service) GetWeatherData(ctx context.Context, city string) Result {
	var (
		wg      sync.WaitGroup
		current CurrentWeather
		hourly  []HourlyEntry
		daily   []DailyEntry

		currentErr, hourlyErr, dailyErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		current, currentErr = s.getCurrent(ctx, city)
	}()
	go func() {
		defer wg.Done()
		hourly, hourlyErr = s.getHourly(ctx, city)
	}()
	go func() {
		defer wg.Done()
		daily, dailyErr = s.getDaily(ctx, city)
	}()
	wg.Wait()

	// Fixed precedence keeps the reported code deterministic when more
	// than one sub-fetch fails.
	for _, err := range []error{currentErr, hourlyErr, dailyErr} {
		if err == nil {
			continue
		}
		code := Classify(err)
		s.metrics.LookupFailures.WithLabelValues(string(code)).Inc()
		s.logger.Errorw("weather lookup failed", "city", city, "code", code, "error", err)
		return Result{
			Success:   false,
			ErrorCode: code,
			City:      city,
		}
	}

	return Result{
		Success:   true,
		Current:   current,
		Hourly:    hourly,
		Daily:     daily,
		FetchedAt: time.Now(),
	}
}

func (s *Service) getCurrent(ctx context.Context, city string) (CurrentWeather, error) {
	key := "current:" + NormalizeCityName(city)
	if v, ok := s.cache.Get(key); ok {
		if cur, ok := v.(CurrentWeather); ok {
			s.cacheLookup("current", true, city)
			return cur, nil
		}
	}
	s.cacheLookup("current", false, city)

	payload, err := s.client.FetchCurrent(ctx, city)
	if err != nil {
		return CurrentWeather{}, err
	}

	current := NormalizeCurrent(payload)
	s.cache.Set(key, current)
	return current, nil
}

func (s *Service) getHourly(ctx context.Context, city string) ([]HourlyEntry, error) {
	key := "hourly:" + NormalizeCityName(city)
	if v, ok := s.cache.Get(key); ok {
		if entries, ok := v.([]HourlyEntry); ok {
			s.cacheLookup("hourly", true, city)
			return entries, nil
		}
	}
	s.cacheLookup("hourly", false, city)

	payload, err := s.client.FetchForecast(ctx, city)
	if err != nil {
		return nil, err
	}

	hourly := NormalizeHourly(payload.List)
	s.cache.Set(key, hourly)
	return hourly, nil
}

func (s *Service) getDaily(ctx context.Context, city string) ([]DailyEntry, error) {
	key := "daily:" + NormalizeCityName(city)
	if v, ok := s.cache.Get(key); ok {
		if entries, ok := v.([]DailyEntry); ok {
			s.cacheLookup("daily", true, city)
			return entries, nil
		}
	}
	s.cacheLookup("daily", false, city)

	payload, err := s.client.FetchForecast(ctx, city)
	if err != nil {
		return nil, err
	}

	daily := NormalizeDaily(payload.List)
	s.cache.Set(key, daily)
	return daily, nil
}

func (s *Service) cacheLookup(resource string, hit bool, city string) {
	result := "miss"
	if hit {
		result = "hit"
	}
	s.metrics.CacheLookups.WithLabelValues(resource, result).Inc()
	s.logger.Debugw("cache lookup", "resource", resource, "result", result, "city", city)
}

// ClearCache drops every cached sub-resource.
func (s *Service) ClearCache() {
	s.cache.FlushAll()
	s.logger.Infow("cache cleared")
}

// CacheStats exposes the cache's hit/miss/key counters for the
// development-only stats endpoint.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
