package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	t.Run("Get And Put", func(t *testing.T) {
		s := New[string]()

		if _, ok := s.Get("missing"); ok {
			t.Error("expected no entry for unknown key")
		}

		s.Put("k", "value", time.Minute)
		entry, ok := s.Get("k")
		if !ok {
			t.Fatal("expected entry after Put")
		}
		if !entry.OK {
			t.Error("expected entry.OK for a stored value")
		}
		if entry.Value != "value" {
			t.Errorf("expected value, got %q", entry.Value)
		}
	})

	t.Run("PutMiss stores explicit absence", func(t *testing.T) {
		s := New[string]()
		s.PutMiss("k", time.Minute)

		entry, ok := s.Get("k")
		if !ok {
			t.Fatal("expected a stored entry for a cached miss")
		}
		if entry.OK {
			t.Error("cached miss should have OK=false")
		}
	})

	t.Run("pointer values keep identity", func(t *testing.T) {
		type payload struct{ n int }
		s := New[*payload]()

		p := &payload{n: 7}
		s.Put("k", p, time.Minute)

		entry, _ := s.Get("k")
		if entry.Value != p {
			t.Error("expected the identical pointer back from the cache")
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		s := New[string]()
		s.Put("k", "first", time.Minute)
		s.Put("k", "second", time.Minute)

		entry, _ := s.Get("k")
		if entry.Value != "second" {
			t.Errorf("expected second write, got %q", entry.Value)
		}
	})

	t.Run("Delete Len Flush", func(t *testing.T) {
		s := New[int]()
		s.Put("a", 1, time.Minute)
		s.Put("b", 2, time.Minute)

		if s.Len() != 2 {
			t.Errorf("expected 2 entries, got %d", s.Len())
		}

		s.Delete("a")
		if _, ok := s.Get("a"); ok {
			t.Error("expected a to be deleted")
		}

		s.Flush()
		if s.Len() != 0 {
			t.Errorf("expected empty store after Flush, got %d", s.Len())
		}
	})
}

func TestStoreExpiry(t *testing.T) {
	t.Run("entry expires after TTL", func(t *testing.T) {
		s := New[string]()
		s.Put("k", "value", 20*time.Millisecond)

		time.Sleep(100 * time.Millisecond)

		if _, ok := s.Get("k"); ok {
			t.Error("expected entry to expire")
		}
	})

	t.Run("stale timer does not evict newer write", func(t *testing.T) {
		s := New[string]()
		s.Put("k", "v1", 20*time.Millisecond)
		s.Put("k", "v2", time.Minute)

		time.Sleep(100 * time.Millisecond)

		entry, ok := s.Get("k")
		if !ok {
			t.Fatal("v2 should survive v1's timer firing")
		}
		if entry.Value != "v2" {
			t.Errorf("expected v2, got %q", entry.Value)
		}
	})

	t.Run("replacement expires on its own timer", func(t *testing.T) {
		s := New[string]()
		s.Put("k", "v1", time.Minute)
		s.Put("k", "v2", 20*time.Millisecond)

		time.Sleep(100 * time.Millisecond)

		if _, ok := s.Get("k"); ok {
			t.Error("expected v2 to expire on its own timer")
		}
	})
}

func TestStoreConcurrency(t *testing.T) {
	s := New[int]()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			s.Put(key, i, time.Minute)
			if entry, ok := s.Get(key); !ok || entry.Value != i {
				t.Errorf("lost write for %s", key)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", s.Len())
	}
}
