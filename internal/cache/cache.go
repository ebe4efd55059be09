package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL matches the 15-minute window the upstream provider refreshes
// its city data in; DefaultSweepInterval bounds how long expired entries can
// linger for cities nobody queries anymore.
const (
	DefaultTTL           = 900 * time.Second
	DefaultSweepInterval = 120 * time.Second
)

// Stats reports cumulative hit/miss counters and the current key count,
// exposed through the development-only cache-stats endpoint.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Keys   int    `json:"keys"`
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a concurrency-safe in-memory key/value store with a fixed
// per-entry TTL. Expired entries are dropped lazily on read and in bulk by
// DeleteExpired, which the sweep scheduler runs periodically. There is no
// size-based eviction; the expected cardinality of distinct cities is low.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   clockwork.Clock

	hits   uint64
	misses uint64
}

// New creates a Store with the given TTL, using the real clock.
// A ttl of zero or less falls back to DefaultTTL.
func New(ttl time.Duration) *Store {
	return NewWithClock(ttl, clockwork.NewRealClock())
}

// NewWithClock creates a Store with an injected time source so tests can
// advance time deterministically.
func NewWithClock(ttl time.Duration, clock clockwork.Clock) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the stored value for key, or false when the key is absent or
// its TTL has elapsed. An expired entry is purged on the spot.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a Set may have raced in between.
		if cur, exists := s.entries[key]; exists && !s.clock.Now().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		ok = false
	}

	s.mu.Lock()
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	s.mu.Unlock()

	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the store's default TTL, replacing any
// previous entry.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.clock.Now().Add(s.ttl),
	}
}

// FlushAll removes every entry. Hit/miss counters are left intact.
func (s *Store) FlushAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// DeleteExpired evicts all entries whose TTL has elapsed and returns how
// many were removed. Runs independent of read traffic.
func (s *Store) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns the current counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Hits:   s.hits,
		Misses: s.misses,
		Keys:   len(s.entries),
	}
}

// TTL reports the store's configured time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
