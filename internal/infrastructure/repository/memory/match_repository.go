package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/match"
)

const dayLayout = "2006-01-02"

type MatchRepository struct {
	mu   sync.RWMutex
	byID map[int64]match.Match
}

func NewMatchRepository(items []match.Match) *MatchRepository {
	byID := make(map[int64]match.Match, len(items))
	for _, item := range items {
		byID[item.ID] = cloneMatch(item)
	}
	return &MatchRepository{byID: byID}
}

// Upsert overwrites stored rows but keeps their H2H cache.
func (r *MatchRepository) Upsert(_ context.Context, items []match.Match) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		next := cloneMatch(item)
		if existing, ok := r.byID[item.ID]; ok {
			next.H2H = existing.H2H
		} else {
			next.H2H = nil
		}
		r.byID[item.ID] = next
		written++
	}
	return written, nil
}

func (r *MatchRepository) Get(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) Find(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.byID {
		if filter.Matches(item) {
			out = append(out, cloneMatch(item))
		}
	}
	filter.SortByKickoff(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Count ignores filter.Limit.
func (r *MatchRepository) Count(_ context.Context, filter match.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.byID {
		if filter.Matches(item) {
			count++
		}
	}
	return count, nil
}

func (r *MatchRepository) SetH2H(_ context.Context, id int64, h2h match.H2H) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", match.ErrNotFound, id)
	}
	cached := h2h
	cached.Matches = append([]match.Match(nil), h2h.Matches...)
	item.H2H = &cached
	r.byID[id] = item
	return nil
}

func (r *MatchRepository) DeleteFinishedBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, item := range r.byID {
		if match.IsFinishedStatus(item.Status) && item.UTCDate.Before(cutoff) {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MatchRepository) Summary(_ context.Context) (match.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := match.Summary{Count: len(r.byID)}
	for _, item := range r.byID {
		if item.H2H != nil {
			out.WithH2H++
		}
		switch {
		case match.IsFinishedStatus(item.Status):
			out.Finished++
		case match.IsUpcomingStatus(item.Status):
			out.Scheduled++
		}
		out.Oldest, out.Newest = widenRange(out.Oldest, out.Newest, item.UTCDate.UTC().Format(dayLayout))
	}
	return out, nil
}

func cloneMatch(item match.Match) match.Match {
	if item.H2H != nil {
		h2h := *item.H2H
		h2h.Matches = append([]match.Match(nil), item.H2H.Matches...)
		item.H2H = &h2h
	}
	item.Referees = append([]match.Referee(nil), item.Referees...)
	return item
}
