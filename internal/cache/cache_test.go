package cache

import (
	"testing"
	"time"
)

// fixedClock lets tests move the cache's notion of now.
type fixedClock struct {
	t time.Time
}

func (f *fixedClock) Now() time.Time { return f.t }

func (f *fixedClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache, *fixedClock) {
	clock := &fixedClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clock.Now
	return c, clock
}

func TestRoundTrip(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)

	c.Put("flashcard:1", "value")
	got, ok := c.Get("flashcard:1")
	if !ok || got != "value" {
		t.Fatalf("Get = (%v, %v); want (value, true)", got, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	c.Put("k", 1)
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestTTLExpiry(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)
	c.Put("k", 1)

	clock.Advance(5*time.Minute - time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired before TTL elapsed")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL elapsed, without explicit invalidation")
	}
}

func TestPutRefreshesTTL(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)
	c.Put("k", 1)
	clock.Advance(4 * time.Minute)
	c.Put("k", 2)
	clock.Advance(4 * time.Minute)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("Get = (%v, %v); want (2, true)", got, ok)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	c.Put(FlashcardsKey(1, 10), "list-a")
	c.Put(FlashcardsKey(1, 11), "list-b")
	c.Put(FlashcardKey(7), "single")

	c.InvalidatePrefix(PrefixFlashcards)

	if _, ok := c.Get(FlashcardsKey(1, 10)); ok {
		t.Error("flashcards:1:10 survived prefix invalidation")
	}
	if _, ok := c.Get(FlashcardsKey(1, 11)); ok {
		t.Error("flashcards:1:11 survived prefix invalidation")
	}
	if _, ok := c.Get(FlashcardKey(7)); !ok {
		t.Error("flashcard:7 was removed by an unrelated prefix")
	}
}

func TestDeleteExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Put("old", 1)
	clock.Advance(2 * time.Minute)
	c.Put("fresh", 2)

	removed := c.DeleteExpired()
	if removed != 1 {
		t.Errorf("DeleteExpired removed %d; want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d; want 1", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry was swept")
	}
}

func TestDefaultTTLFallback(t *testing.T) {
	c := New(0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v; want %v", c.ttl, DefaultTTL)
	}
}
