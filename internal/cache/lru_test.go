package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache returned a hit")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v; want alpha, true", got, ok)
	}

	c.Set("a", "updated")
	got, _ = c.Get("a")
	if got != "updated" {
		t.Errorf("Get(a) after overwrite = %q, want updated", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes the eviction candidate.
	c.Get("k0")
	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Error("expected k1 to be evicted")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after expired Get, want 0", c.Size())
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired() = %d, want 2", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("expected fresh entry to survive cleanup")
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Delete("a")
	c.Delete("a") // deleting twice is a no-op

	if _, ok := c.Get("a"); ok {
		t.Error("expected deleted entry to miss")
	}
}

func TestLRUCache_Purge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Errorf("Size() = %d after Purge, want 0", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected purged entry to miss")
	}
}
