package teamstats

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, stats TeamStats) error
	GetByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64]TeamStats, error)
	DeleteComputedBefore(ctx context.Context, cutoff time.Time) (int, error)
	Summary(ctx context.Context) (Summary, error)
}
