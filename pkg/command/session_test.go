package command

import (
	"sync"
	"testing"
	"time"
)

func TestSessionsGetOrCreate(t *testing.T) {
	registry := NewSessions(0)

	t.Run("empty ID creates fresh session", func(t *testing.T) {
		a := registry.GetOrCreate("")
		b := registry.GetOrCreate("")

		if a.ID == "" || b.ID == "" {
			t.Fatal("expected generated session IDs")
		}
		if a.ID == b.ID {
			t.Error("expected distinct sessions for empty IDs")
		}
	})

	t.Run("known ID returns same session", func(t *testing.T) {
		a := registry.GetOrCreate("caller-1")
		b := registry.GetOrCreate("caller-1")

		if a != b {
			t.Error("expected same session instance for same ID")
		}
	})

	t.Run("unknown ID is adopted", func(t *testing.T) {
		s := registry.GetOrCreate("brand-new")
		if s.ID != "brand-new" {
			t.Errorf("expected caller-provided ID to be kept, got %q", s.ID)
		}
	})
}

func TestSessionsConcurrentGetOrCreate(t *testing.T) {
	registry := NewSessions(0)

	const goroutines = 16
	results := make([]*Session, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = registry.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent GetOrCreate returned different sessions for same ID")
		}
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 session, got %d", registry.Len())
	}
}

func TestSessionsPruneIdle(t *testing.T) {
	registry := NewSessions(0)

	stale := registry.GetOrCreate("stale")
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	registry.GetOrCreate("fresh")

	removed := registry.PruneIdle(10 * time.Minute)
	if removed != 1 {
		t.Fatalf("expected 1 pruned session, got %d", removed)
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 remaining session, got %d", registry.Len())
	}

	// A pruned ID comes back as a fresh session.
	revived := registry.GetOrCreate("stale")
	if revived.History.Len() != 0 {
		t.Error("expected revived session to start empty")
	}
}
