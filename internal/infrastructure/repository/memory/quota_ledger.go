package memory

import (
	"context"
	"sync"
)

// QuotaLedger keeps per-day usage counters in process memory.
type QuotaLedger struct {
	mu    sync.Mutex
	byDay map[string]int
}

func NewQuotaLedger() *QuotaLedger {
	return &QuotaLedger{byDay: make(map[string]int)}
}

func (l *QuotaLedger) Used(_ context.Context, day string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.byDay[day], nil
}

func (l *QuotaLedger) Reconcile(_ context.Context, day string, floor int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if floor > l.byDay[day] {
		l.byDay[day] = floor
	}
	return l.byDay[day], nil
}

func (l *QuotaLedger) Reserve(_ context.Context, day string, ceiling int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.byDay[day] >= ceiling {
		return false, nil
	}
	l.byDay[day]++
	return true, nil
}

func (l *QuotaLedger) Release(_ context.Context, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.byDay[day] > 0 {
		l.byDay[day]--
	}
	return nil
}
