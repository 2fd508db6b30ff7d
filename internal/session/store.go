package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store persists wizard sessions.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStoreConfig holds configuration for the in-memory store.
type MemoryStoreConfig struct {
	// Logger is the structured logger.
	Logger zerolog.Logger

	// TTL is how long a session lives after its last save.
	// Default: 1 hour
	TTL time.Duration

	// MaxSessions caps live sessions.
	// Default: 10000
	MaxSessions int

	// Now overrides the clock in tests.
	Now func() time.Time
}

// MemoryStore keeps sessions as compressed blobs in process memory.
// Sessions are copied in and out, so callers never share state.
type MemoryStore struct {
	mu          sync.Mutex
	blobs       map[string]entry
	codec       *codec
	logger      zerolog.Logger
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	lastCleanup time.Time
}

type entry struct {
	blob      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}
	if cfg.MaxSessions == 0 {
		cfg.MaxSessions = 10000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &MemoryStore{
		blobs:       make(map[string]entry),
		codec:       newCodec(),
		logger:      cfg.Logger,
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		now:         cfg.Now,
	}
}

// Create starts a new session.
func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	blob, err := m.codec.encode(s)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked(now)
	if len(m.blobs) >= m.maxSessions {
		return nil, ErrStoreFull
	}
	m.blobs[s.ID] = entry{blob: blob, expiresAt: s.ExpiresAt}

	return s, nil
}

// Get returns a copy of the session, or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	e, ok := m.blobs[id]
	if ok && m.now().After(e.expiresAt) {
		delete(m.blobs, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return m.codec.decode(e.blob)
}

// Save stores s and extends its expiry. The session must exist.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := m.now().UTC()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(m.ttl)

	blob, err := m.codec.encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.blobs[s.ID]
	if !ok || now.After(e.expiresAt) {
		delete(m.blobs, s.ID)
		return ErrNotFound
	}
	m.blobs[s.ID] = entry{blob: blob, expiresAt: s.ExpiresAt}
	return nil
}

// Delete removes a session. Deleting an unknown id returns ErrNotFound.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, id)
	return nil
}

// Len returns the number of stored sessions, including expired ones not
// yet swept.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (m *MemoryStore) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

// cleanupLocked sweeps at most once a minute, or immediately at capacity.
func (m *MemoryStore) cleanupLocked(now time.Time) {
	if len(m.blobs) < m.maxSessions && now.Sub(m.lastCleanup) < time.Minute {
		return
	}
	if n := m.sweepLocked(now); n > 0 {
		m.logger.Debug().Int("expired", n).Int("remaining", len(m.blobs)).Msg("expired sessions removed")
	}
}

func (m *MemoryStore) sweepLocked(now time.Time) int {
	m.lastCleanup = now
	removed := 0
	for id, e := range m.blobs {
		if now.After(e.expiresAt) {
			delete(m.blobs, id)
			removed++
		}
	}
	return removed
}
