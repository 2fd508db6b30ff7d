package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yieldwise/yieldwise/internal/weather"
)

// WeatherSource is the weather lookup the warm-up job drives. The cached
// weather.Service satisfies it.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, location string) (*weather.Snapshot, error)
}

// WarmupJob fetches current weather for configured locations so wizard
// lookups hit a fresh cache.
type WarmupJob struct {
	config  WarmupConfig
	weather WeatherSource
	logger  zerolog.Logger

	mu    sync.RWMutex
	stats WarmupStats
}

// WarmupStats accumulates statistics across runs.
type WarmupStats struct {
	TotalRuns       int64
	Successful      int64
	Failed          int64
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmupJobConfig holds configuration for creating a WarmupJob.
type WarmupJobConfig struct {
	Config  WarmupConfig
	Weather WeatherSource
	Logger  zerolog.Logger
}

// NewWarmupJob creates a new warm-up job.
func NewWarmupJob(cfg WarmupJobConfig) *WarmupJob {
	config := cfg.Config
	defaults := DefaultWarmupConfig()
	if len(config.Regions) == 0 {
		config.Regions = defaults.Regions
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &WarmupJob{
		config:  config,
		weather: cfg.Weather,
		logger:  cfg.Logger,
	}
}

// WarmupResult contains the outcome of one run.
type WarmupResult struct {
	StartTime      time.Time
	Duration       time.Duration
	TotalLocations int
	Successful     int
	Failed         int
	Errors         []WarmupError
}

// WarmupError records a failed location lookup.
type WarmupError struct {
	Location string
	Error    string
}

// Run warms every configured location.
func (j *WarmupJob) Run(ctx context.Context) *WarmupResult {
	return j.run(ctx, j.config.Locations())
}

// RunLocations warms the given locations instead of the configured ones.
func (j *WarmupJob) RunLocations(ctx context.Context, locations []string) *WarmupResult {
	return j.run(ctx, WarmupConfig{Regions: RegionsFromNames(locations)}.Locations())
}

func (j *WarmupJob) run(ctx context.Context, locations []string) *WarmupResult {
	start := time.Now()
	result := &WarmupResult{
		StartTime:      start,
		TotalLocations: len(locations),
	}

	j.logger.Info().
		Int("total_locations", result.TotalLocations).
		Int("concurrency", j.config.Concurrency).
		Msg("starting weather warm-up")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)

	for _, loc := range locations {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := j.warm(gctx, loc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, WarmupError{Location: loc, Error: err.Error()})
				j.logger.Warn().Err(err).Str("location", loc).Msg("weather warm-up failed")
				return nil
			}
			result.Successful++
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	result.Duration = time.Since(start)
	j.record(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("weather warm-up completed")

	return result
}

func (j *WarmupJob) warm(ctx context.Context, location string) error {
	if j.weather == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()
	_, err := j.weather.GetCurrentWeather(ctx, location)
	return err
}

func (j *WarmupJob) record(result *WarmupResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stats.TotalRuns++
	j.stats.Successful += int64(result.Successful)
	j.stats.Failed += int64(result.Failed)
	j.stats.LastRunAt = result.StartTime.Add(result.Duration)
	j.stats.LastRunDuration = result.Duration
	j.stats.TotalDuration += result.Duration
}

// Stats returns a copy of the accumulated statistics.
func (j *WarmupJob) Stats() WarmupStats {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stats
}

// StatsSnapshot returns the statistics as log-friendly fields.
func (j *WarmupJob) StatsSnapshot() map[string]interface{} {
	s := j.Stats()
	return map[string]interface{}{
		"total_runs":        s.TotalRuns,
		"successful":        s.Successful,
		"failed":            s.Failed,
		"last_run_at":       s.LastRunAt,
		"last_run_duration": s.LastRunDuration.String(),
		"total_duration":    s.TotalDuration.String(),
	}
}

// RunEvery runs the job immediately and then every interval until ctx is
// canceled. A non-positive interval runs it once.
func (j *WarmupJob) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		j.Run(ctx)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		j.Run(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
