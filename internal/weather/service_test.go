package weather_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/weather"
)

// mockProvider is a mock weather provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	snapshots map[string]*weather.Snapshot
	err       error
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		snapshots: make(map[string]*weather.Snapshot),
	}
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) GetCurrentWeather(_ context.Context, location string) (*weather.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++

	if m.err != nil {
		return nil, m.err
	}

	if snap, ok := m.snapshots[location]; ok {
		return snap, nil
	}

	return &weather.Snapshot{
		Location:    location,
		Temperature: 24.5,
		Humidity:    65,
		Pressure:    1012,
		Condition:   weather.ConditionClear,
		ObservedAt:  time.Now(),
		FetchedAt:   time.Now(),
		Source:      "mock",
	}, nil
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockProvider) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func TestService_GetCurrentWeather(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	snap, err := service.GetCurrentWeather(context.Background(), "Ludhiana")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "Ludhiana", snap.Location)
	assert.Equal(t, 24.5, snap.Temperature)
	assert.Equal(t, 65, snap.Humidity)
	assert.Equal(t, weather.ConditionClear, snap.Condition)
}

func TestService_GetCurrentWeather_Caching(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	_, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)

	_, err = service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.getCallCount())
}

func TestService_GetCurrentWeather_NormalizedKey(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	_, err := service.GetCurrentWeather(context.Background(), "San Diego")
	require.NoError(t, err)

	_, err = service.GetCurrentWeather(context.Background(), "  san   DIEGO ")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.getCallCount())

	_, err = service.GetCurrentWeather(context.Background(), "Boston")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.getCallCount())
}

func TestService_GetCurrentWeather_InvalidLocation(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	tests := []struct {
		name     string
		location string
	}{
		{"empty", ""},
		{"whitespace", "   \t "},
		{"too long", strings.Repeat("a", 101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetCurrentWeather(context.Background(), tt.location)
			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrInvalidLocation)
		})
	}

	assert.Equal(t, 0, provider.getCallCount())
}

func TestService_GetCurrentWeather_ProviderError(t *testing.T) {
	provider := newMockProvider()
	provider.setError(errors.New("api error"))

	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestService_GetCurrentWeather_StaleOnError(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.Nop(),
		CacheTTL:        100 * time.Millisecond,
		StaleIfErrorTTL: 1 * time.Hour,
	})

	snap1, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)
	require.NotNil(t, snap1)

	time.Sleep(150 * time.Millisecond)

	provider.setError(errors.New("api error"))

	snap2, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)
	require.NotNil(t, snap2)
	assert.Equal(t, snap1.Temperature, snap2.Temperature)
}

func TestService_InvalidateCache(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	_, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)

	service.InvalidateCache()

	_, err = service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.getCallCount())
}

func TestService_CacheStats(t *testing.T) {
	provider := newMockProvider()
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	stats := service.CacheStats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, "mock", stats.Provider)
	assert.Equal(t, "mock", service.ProviderName())

	_, _ = service.GetCurrentWeather(context.Background(), "Fresno")
	_, _ = service.GetCurrentWeather(context.Background(), "Davis")

	stats = service.CacheStats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.FreshEntries)
}

// blockingProvider holds calls for one location until released.
type blockingProvider struct {
	mu       sync.Mutex
	calls    map[string]int
	slow     string
	started  chan struct{}
	release  chan struct{}
	startOne sync.Once
}

func newBlockingProvider(slow string) *blockingProvider {
	return &blockingProvider{
		calls:   make(map[string]int),
		slow:    slow,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingProvider) Name() string { return "blocking" }

func (b *blockingProvider) GetCurrentWeather(ctx context.Context, location string) (*weather.Snapshot, error) {
	b.mu.Lock()
	b.calls[location]++
	b.mu.Unlock()

	if location == b.slow {
		b.startOne.Do(func() { close(b.started) })
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &weather.Snapshot{
		Location:    location,
		Temperature: 20,
		Humidity:    50,
		Condition:   weather.ConditionClear,
		ObservedAt:  time.Now(),
		FetchedAt:   time.Now(),
		Source:      "blocking",
	}, nil
}

func (b *blockingProvider) callsFor(location string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[location]
}

func TestService_CachedLookupNotBlockedBySlowFetch(t *testing.T) {
	provider := newBlockingProvider("Nairobi")
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 5 * time.Minute,
	})

	_, err := service.GetCurrentWeather(context.Background(), "Fresno")
	require.NoError(t, err)

	var wg sync.WaitGroup
	slowErrs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.GetCurrentWeather(context.Background(), "Nairobi")
			slowErrs <- err
		}()
	}

	select {
	case <-provider.started:
	case <-time.After(2 * time.Second):
		t.Fatal("slow fetch never started")
	}

	done := make(chan error, 1)
	go func() {
		_, err := service.GetCurrentWeather(context.Background(), "Fresno")
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		close(provider.release)
		t.Fatal("cached lookup waited on an unrelated provider call")
	}

	close(provider.release)
	wg.Wait()
	close(slowErrs)
	for err := range slowErrs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, provider.callsFor("Fresno"))
	assert.Equal(t, 1, provider.callsFor("Nairobi"))
}

func TestService_GetCurrentWeather_NoDataForLocation(t *testing.T) {
	provider := newMockProvider()
	provider.setError(fmt.Errorf("%w: %s", weather.ErrNoDataForLocation, "Atlantis"))

	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.GetCurrentWeather(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrNoDataForLocation)
	assert.NotErrorIs(t, err, weather.ErrProviderUnavailable)
}
