package speech

import (
	"bytes"
	"testing"
	"time"
)

func TestAudioCache_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := newAudioCacheWithClock(time.Hour, func() time.Time { return now })

	cache.Set("intro", []byte("mp3-bytes"))

	now = now.Add(59 * time.Minute)
	if data, ok := cache.Get("intro"); !ok || !bytes.Equal(data, []byte("mp3-bytes")) {
		t.Errorf("59 minutes in: got (%q, %v), want cache hit", data, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("intro"); ok {
		t.Error("61 minutes in: got cache hit, want miss")
	}
}

func TestAudioCache_MissingSlug(t *testing.T) {
	cache := NewAudioCache(time.Hour)
	if _, ok := cache.Get("nope"); ok {
		t.Error("got hit for never-set slug")
	}
}

func TestAudioCache_Overwrite(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := newAudioCacheWithClock(time.Hour, func() time.Time { return now })

	cache.Set("intro", []byte("old"))
	now = now.Add(61 * time.Minute)
	cache.Set("intro", []byte("new"))

	data, ok := cache.Get("intro")
	if !ok || string(data) != "new" {
		t.Errorf("got (%q, %v), want fresh overwrite", data, ok)
	}
}
