package speech

import (
	"sync"
	"time"
)

type audioEntry struct {
	data     []byte
	storedAt time.Time
}

// AudioCache is a process-wide map of synthesized audio keyed by section slug.
// Entries older than the TTL are treated as misses and overwritten by the next
// synthesis; there is no other eviction (the section set is small and fixed).
// The clock is injected so TTL behavior is testable.
type AudioCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]audioEntry
}

// NewAudioCache creates a cache with the given TTL using the real clock.
func NewAudioCache(ttl time.Duration) *AudioCache {
	return newAudioCacheWithClock(ttl, time.Now)
}

func newAudioCacheWithClock(ttl time.Duration, now func() time.Time) *AudioCache {
	return &AudioCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]audioEntry),
	}
}

// Get returns the cached audio for slug if it is younger than the TTL.
func (c *AudioCache) Get(slug string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[slug]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.data, true
}

// Set stores audio for slug with the current timestamp, overwriting any prior
// entry. Last write wins under concurrent synthesis of the same slug.
func (c *AudioCache) Set(slug string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = audioEntry{data: data, storedAt: c.now()}
}
