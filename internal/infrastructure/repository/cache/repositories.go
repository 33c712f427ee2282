package cache

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	basecache "github.com/riskibarqy/football-predictions/internal/platform/cache"
)

const (
	competitionPrefix = "competition:"
	teamStatsPrefix   = "team-stats:"
	predictionPrefix  = "prediction:"
)

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) Count(ctx context.Context) (int, error) {
	return basecache.Load(ctx, r.cache, competitionPrefix+"count", r.next.Count)
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	items, err := basecache.Load(ctx, r.cache, competitionPrefix+"list", r.next.List)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *CompetitionRepository) GetByCode(ctx context.Context, code string) (competition.Competition, bool, error) {
	key := competitionPrefix + "code:" + competition.NormalizeCode(code)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedCompetitionByCode, error) {
		item, exists, err := r.next.GetByCode(ctx, code)
		return cachedCompetitionByCode{value: item, exists: exists}, err
	})
	if err != nil {
		return competition.Competition{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, items []competition.Competition) (int, error) {
	written, err := r.next.Upsert(ctx, items)
	if err != nil {
		return written, err
	}
	r.cache.DeletePrefix(ctx, competitionPrefix)
	return written, nil
}

func (r *CompetitionRepository) TouchIngested(ctx context.Context, day string) (int, error) {
	touched, err := r.next.TouchIngested(ctx, day)
	if err != nil {
		return touched, err
	}
	r.cache.DeletePrefix(ctx, competitionPrefix)
	return touched, nil
}

func (r *CompetitionRepository) Summary(ctx context.Context) (competition.Summary, error) {
	return r.next.Summary(ctx)
}

type cachedCompetitionByCode struct {
	value  competition.Competition
	exists bool
}

// TeamStatsRepository caches batch lookups keyed by the sorted id set.
type TeamStatsRepository struct {
	next  teamstats.Repository
	cache *basecache.Store
}

func NewTeamStatsRepository(next teamstats.Repository, cache *basecache.Store) *TeamStatsRepository {
	return &TeamStatsRepository{next: next, cache: cache}
}

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.TeamStats) error {
	if err := r.next.Upsert(ctx, stats); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, teamStatsPrefix)
	return nil
}

func (r *TeamStatsRepository) GetByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64]teamstats.TeamStats, error) {
	ids := slices.Clone(teamIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	key := teamStatsPrefix + "ids:" + strings.Join(parts, ",")
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (map[int64]teamstats.TeamStats, error) {
		return r.next.GetByTeamIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(cached), nil
}

func (r *TeamStatsRepository) DeleteComputedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	deleted, err := r.next.DeleteComputedBefore(ctx, cutoff)
	if err != nil {
		return deleted, err
	}
	r.cache.DeletePrefix(ctx, teamStatsPrefix)
	return deleted, nil
}

func (r *TeamStatsRepository) Summary(ctx context.Context) (teamstats.Summary, error) {
	return r.next.Summary(ctx)
}

type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) ReplaceForDay(ctx context.Context, day string, items []prediction.Prediction) error {
	if err := r.next.ReplaceForDay(ctx, day, items); err != nil {
		return err
	}
	r.cache.Delete(ctx, predictionDayKey(day))
	return nil
}

func (r *PredictionRepository) ListByDay(ctx context.Context, day string) ([]prediction.Prediction, error) {
	items, err := basecache.Load(ctx, r.cache, predictionDayKey(day), func(ctx context.Context) ([]prediction.Prediction, error) {
		return r.next.ListByDay(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *PredictionRepository) DeleteCreatedBefore(ctx context.Context, day string) (int, error) {
	deleted, err := r.next.DeleteCreatedBefore(ctx, day)
	if err != nil {
		return deleted, err
	}
	r.cache.DeletePrefix(ctx, predictionPrefix)
	return deleted, nil
}

func (r *PredictionRepository) Summary(ctx context.Context) (prediction.Summary, error) {
	return r.next.Summary(ctx)
}

func predictionDayKey(day string) string {
	return predictionPrefix + "day:" + day
}
