package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
)

// PredictionRepository partitions predictions by their created_at day.
type PredictionRepository struct {
	mu    sync.RWMutex
	byDay map[string]map[int64]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{byDay: make(map[string]map[int64]prediction.Prediction)}
}

func (r *PredictionRepository) ReplaceForDay(_ context.Context, day string, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition := make(map[int64]prediction.Prediction, len(items))
	for _, item := range items {
		item.CreatedAt = day
		partition[item.MatchID] = item
	}
	if len(partition) == 0 {
		delete(r.byDay, day)
		return nil
	}
	r.byDay[day] = partition
	return nil
}

func (r *PredictionRepository) ListByDay(_ context.Context, day string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partition := r.byDay[day]
	out := make([]prediction.Prediction, 0, len(partition))
	for _, item := range partition {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UTCDate.Equal(out[j].UTCDate) {
			return out[i].UTCDate.Before(out[j].UTCDate)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}

func (r *PredictionRepository) DeleteCreatedBefore(_ context.Context, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, partition := range r.byDay {
		if key < day {
			deleted += len(partition)
			delete(r.byDay, key)
		}
	}
	return deleted, nil
}

func (r *PredictionRepository) Summary(_ context.Context) (prediction.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out prediction.Summary
	for day, partition := range r.byDay {
		out.Count += len(partition)
		out.Oldest, out.Newest = widenRange(out.Oldest, out.Newest, day)
	}
	return out, nil
}
