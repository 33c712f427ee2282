package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
)

type CompetitionRepository struct {
	mu     sync.RWMutex
	byCode map[string]competition.Competition
}

func NewCompetitionRepository(items []competition.Competition) *CompetitionRepository {
	byCode := make(map[string]competition.Competition, len(items))
	for _, item := range items {
		byCode[competition.NormalizeCode(item.Code)] = item
	}
	return &CompetitionRepository{byCode: byCode}
}

func (r *CompetitionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byCode), nil
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.byCode))
	for _, item := range r.byCode {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CompetitionRepository) GetByCode(_ context.Context, code string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byCode[competition.NormalizeCode(code)]
	return item, ok, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, items []competition.Competition) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for _, item := range items {
		code := competition.NormalizeCode(item.Code)
		if code == "" {
			continue
		}
		item.Code = code
		r.byCode[code] = item
		written++
	}
	return written, nil
}

func (r *CompetitionRepository) TouchIngested(_ context.Context, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for code, item := range r.byCode {
		item.LastIngestedDate = day
		r.byCode[code] = item
	}
	return len(r.byCode), nil
}

func (r *CompetitionRepository) Summary(_ context.Context) (competition.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := competition.Summary{Count: len(r.byCode)}
	for _, item := range r.byCode {
		out.Oldest, out.Newest = widenRange(out.Oldest, out.Newest, item.LastIngestedDate)
	}
	return out, nil
}

// widenRange extends [oldest, newest] with a YYYY-MM-DD value.
func widenRange(oldest, newest, value string) (string, string) {
	if value == "" {
		return oldest, newest
	}
	if oldest == "" || value < oldest {
		oldest = value
	}
	if newest == "" || value > newest {
		newest = value
	}
	return oldest, newest
}
