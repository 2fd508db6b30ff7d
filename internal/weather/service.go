package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrentWeather fetches the current weather for a named location.
	GetCurrentWeather(ctx context.Context, location string) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache a location's snapshot (default: 10 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration

	// MaxLocationLength bounds accepted location names (default: 100).
	MaxLocationLength int

	// Metrics is optional.
	Metrics *Metrics
}

// Service provides weather snapshots with caching.
type Service struct {
	provider          Provider
	logger            zerolog.Logger
	cacheTTL          time.Duration
	staleIfErrorTTL   time.Duration
	maxLocationLength int
	metrics           *Metrics

	inflight singleflight.Group

	mu              sync.RWMutex
	cache           map[string]*cachedSnapshot
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	maxLocationLength := cfg.MaxLocationLength
	if maxLocationLength == 0 {
		maxLocationLength = 100
	}

	return &Service{
		provider:          cfg.Provider,
		logger:            cfg.Logger,
		cacheTTL:          cacheTTL,
		staleIfErrorTTL:   staleIfErrorTTL,
		maxLocationLength: maxLocationLength,
		metrics:           cfg.Metrics,
		cache:             make(map[string]*cachedSnapshot),
		cleanupInterval:   5 * time.Minute,
	}
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// GetCurrentWeather returns the current weather for a location.
// Locations differing only in case or spacing share a cache entry.
func (s *Service) GetCurrentWeather(ctx context.Context, location string) (*Snapshot, error) {
	key := NormalizeLocation(location)
	if key == "" || len(key) > s.maxLocationLength {
		return nil, ErrInvalidLocation
	}

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.metrics.recordCache(s.provider.Name(), true)
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	s.metrics.recordCache(s.provider.Name(), false)

	return s.fetch(ctx, location, key)
}

// fetch calls the provider and updates the cache. Concurrent misses for
// the same key share one provider call. The lock is not held during the
// call.
func (s *Service) fetch(ctx context.Context, location, key string) (*Snapshot, error) {
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		s.mu.RLock()
		cached, ok := s.cache[key]
		s.mu.RUnlock()
		if ok && time.Now().Before(cached.expiresAt) {
			return cached.snapshot, nil
		}

		s.logger.Debug().
			Str("location", key).
			Str("provider", s.provider.Name()).
			Msg("fetching weather from provider")

		start := time.Now()
		snap, err := s.provider.GetCurrentWeather(ctx, location)
		s.metrics.recordRequest(s.provider.Name(), time.Since(start), err)
		if err != nil {
			return s.fallback(key, err)
		}

		now := time.Now()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cache[key] = &cachedSnapshot{
			snapshot:  snap,
			fetchedAt: now,
			expiresAt: now.Add(s.cacheTTL),
		}
		s.cleanupIfNeeded()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// fallback handles a provider error. Unknown locations are reported as
// such; other errors serve a stale entry when one is recent enough.
func (s *Service) fallback(key string, err error) (*Snapshot, error) {
	if errors.Is(err, ErrNoDataForLocation) {
		s.logger.Debug().Err(err).Str("location", key).Msg("no weather data for location")
		return nil, err
	}

	s.logger.Error().Err(err).
		Str("location", key).
		Msg("failed to fetch weather")

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
		s.logger.Warn().
			Time("fetched_at", cached.fetchedAt).
			Msg("serving stale weather data due to provider error")
		return cached.snapshot, nil
	}

	return nil, ErrProviderUnavailable
}

// cleanupIfNeeded drops entries past their stale window. Callers hold s.mu.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired weather cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSnapshot)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		Entries:      len(s.cache),
		FreshEntries: fresh,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries      int
	FreshEntries int
	Provider     string
}
