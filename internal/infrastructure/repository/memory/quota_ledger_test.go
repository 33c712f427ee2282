package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestQuotaLedger_ReserveNeverExceedsCeiling(t *testing.T) {
	t.Parallel()

	const (
		day     = "2026-10-18"
		ceiling = 10
	)
	ctx := context.Background()
	ledger := NewQuotaLedger()

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.Reserve(ctx, day, ceiling)
			if err != nil {
				t.Errorf("unexpected reserve error: %v", err)
				return
			}
			if ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != ceiling {
		t.Fatalf("unexpected granted count: got=%d want=%d", granted.Load(), ceiling)
	}
	if used, _ := ledger.Used(ctx, day); used != ceiling {
		t.Fatalf("unexpected used count: got=%d want=%d", used, ceiling)
	}
}

func TestQuotaLedger_ReleaseAndReconcile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := NewQuotaLedger()

	if err := ledger.Release(ctx, "2026-10-18"); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if used, _ := ledger.Used(ctx, "2026-10-18"); used != 0 {
		t.Fatalf("release must not go below zero, got %d", used)
	}

	if used, _ := ledger.Reconcile(ctx, "2026-10-18", 4); used != 4 {
		t.Fatalf("unexpected reconciled value: got=%d want=4", used)
	}
	if used, _ := ledger.Reconcile(ctx, "2026-10-18", 2); used != 4 {
		t.Fatalf("reconcile must never lower the counter, got %d", used)
	}
	if used, _ := ledger.Used(ctx, "2026-10-19"); used != 0 {
		t.Fatalf("expected days to be independent, got %d", used)
	}
}
