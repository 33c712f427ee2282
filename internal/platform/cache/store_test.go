package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (map[int64]int, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return map[int64]int{57: 12}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(context.Background(), store, "team-stats:ids:57", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v[57] != 12 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestLoad_ServesCachedValueAndCountsHits(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		calls.Add(1)
		return 6, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Load(context.Background(), store, "competition:count", loader)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if got != 6 {
			t.Fatalf("unexpected value: got=%d want=6", got)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	stats := store.Stats()
	if stats.Entries != 1 || stats.Hits != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("db down")
	calls := 0
	loader := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 4, nil
	}

	if _, err := Load(context.Background(), store, "competition:count", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := Load(context.Background(), store, "competition:count", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got != 4 {
		t.Fatalf("unexpected value: got=%d want=4", got)
	}
}

func TestStore_ExpiresEntriesAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "prediction:day:2026-10-18", 3)
	if _, ok := store.Get(context.Background(), "prediction:day:2026-10-18"); !ok {
		t.Fatalf("expected fresh entry to be served")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "prediction:day:2026-10-18"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
	if got := store.Stats().Entries; got != 0 {
		t.Fatalf("expired entry should be evicted, entries=%d", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "team-stats:1", 1)
	store.Set(context.Background(), "team-stats:2", 2)
	store.Set(context.Background(), "prediction:day:2026-10-18", 3)

	store.DeletePrefix(context.Background(), "team-stats:")

	if _, ok := store.Get(context.Background(), "team-stats:1"); ok {
		t.Fatalf("expected team-stats:1 to be removed")
	}
	if _, ok := store.Get(context.Background(), "prediction:day:2026-10-18"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
