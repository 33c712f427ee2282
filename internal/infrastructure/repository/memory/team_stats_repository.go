package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	mu     sync.RWMutex
	byTeam map[int64]teamstats.TeamStats
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{byTeam: make(map[int64]teamstats.TeamStats)}
}

func (r *TeamStatsRepository) Upsert(_ context.Context, stats teamstats.TeamStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTeam[stats.TeamID] = stats
	return nil
}

func (r *TeamStatsRepository) GetByTeamIDs(_ context.Context, teamIDs []int64) (map[int64]teamstats.TeamStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]teamstats.TeamStats, len(teamIDs))
	for _, id := range teamIDs {
		if item, ok := r.byTeam[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (r *TeamStatsRepository) DeleteComputedBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, item := range r.byTeam {
		if item.ComputedAt.Before(cutoff) {
			delete(r.byTeam, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *TeamStatsRepository) Summary(_ context.Context) (teamstats.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := teamstats.Summary{Count: len(r.byTeam)}
	for _, item := range r.byTeam {
		out.Oldest, out.Newest = widenRange(out.Oldest, out.Newest, item.ComputedAt.UTC().Format(dayLayout))
	}
	return out, nil
}
