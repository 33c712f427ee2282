package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/football-predictions/internal/platform/cache"
)

type countingCompetitionRepository struct {
	competition.Repository
	counts int
}

func (r *countingCompetitionRepository) Count(ctx context.Context) (int, error) {
	r.counts++
	return r.Repository.Count(ctx)
}

func TestCompetitionRepository_InvalidatesOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingCompetitionRepository{Repository: memory.NewCompetitionRepository(nil)}
	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))

	for range 2 {
		if count, err := repo.Count(ctx); err != nil || count != 0 {
			t.Fatalf("unexpected count: count=%d err=%v", count, err)
		}
	}
	if next.counts != 1 {
		t.Fatalf("expected cached count, got %d loads", next.counts)
	}

	if _, err := repo.Upsert(ctx, []competition.Competition{{Code: "PL", Name: "Premier League"}}); err != nil {
		t.Fatalf("unexpected upsert error: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected fresh count after upsert: count=%d err=%v", count, err)
	}
	if next.counts != 2 {
		t.Fatalf("expected reload after upsert, got %d loads", next.counts)
	}
}

func TestTeamStatsRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewTeamStatsRepository()
	_ = next.Upsert(ctx, teamstats.TeamStats{TeamID: 57, Form: 2.1})
	repo := NewTeamStatsRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.GetByTeamIDs(ctx, []int64{61, 57, 57})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delete(first, 57)

	second, err := repo.GetByTeamIDs(ctx, []int64{57, 61})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[57].Form != 2.1 {
		t.Fatalf("cached map was mutated by caller: %+v", second)
	}

	_ = repo.Upsert(ctx, teamstats.TeamStats{TeamID: 57, Form: 1.4})
	third, _ := repo.GetByTeamIDs(ctx, []int64{57})
	if third[57].Form != 1.4 {
		t.Fatalf("expected upsert to invalidate cache, got %+v", third[57])
	}
}
