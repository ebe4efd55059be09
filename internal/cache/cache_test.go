package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetReturnsStoredValueBeforeTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewWithClock(15*time.Minute, clock)

	s.Set("current:ha noi", "payload")

	clock.Advance(14*time.Minute + 59*time.Second)

	v, ok := s.Get("current:ha noi")
	require.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestStore_GetAbsentAtExactTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewWithClock(15*time.Minute, clock)

	s.Set("current:ha noi", "payload")

	// The invariant is "absent at any time >= set-time + TTL", so the
	// boundary itself must already miss.
	clock.Advance(15 * time.Minute)

	_, ok := s.Get("current:ha noi")
	assert.False(t, ok)
}

func TestStore_GetMissesUnknownKey(t *testing.T) {
	s := New(time.Minute)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_SetReplacesAndRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewWithClock(time.Minute, clock)

	s.Set("k", "old")
	clock.Advance(45 * time.Second)
	s.Set("k", "new")
	clock.Advance(30 * time.Second)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestStore_DeleteExpiredEvictsOnlyExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewWithClock(time.Minute, clock)

	s.Set("old", 1)
	clock.Advance(40 * time.Second)
	s.Set("fresh", 2)
	clock.Advance(30 * time.Second)

	removed := s.DeleteExpired()
	assert.Equal(t, 1, removed)

	_, ok := s.Get("old")
	assert.False(t, ok)
	v, ok := s.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestStore_FlushAll(t *testing.T) {
	s := New(time.Minute)

	s.Set("a", 1)
	s.Set("b", 2)
	s.FlushAll()

	assert.Equal(t, 0, s.Stats().Keys)
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestStore_StatsCountsHitsAndMisses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewWithClock(time.Minute, clock)

	s.Set("k", "v")

	_, _ = s.Get("k")       // hit
	_, _ = s.Get("missing") // miss
	clock.Advance(2 * time.Minute)
	_, _ = s.Get("k") // expired, counts as miss

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, 0, stats.Keys)
}

func TestStore_ZeroTTLFallsBackToDefault(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultTTL, s.TTL())
}
