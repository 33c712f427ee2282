package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.TeamStats) error {
	query, args, err := qb.UpsertModel("team_stats", teamStatsFromDomain(stats), []string{"team_id"})
	if err != nil {
		return fmt.Errorf("build upsert team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team stats team=%d: %w", stats.TeamID, err)
	}
	return nil
}

func (r *TeamStatsRepository) GetByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64]teamstats.TeamStats, error) {
	out := make(map[int64]teamstats.TeamStats, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select(teamStatsColumns...).
		From("team_stats").
		Where(qb.In("team_id", int64sToAny(teamIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get team stats query: %w", err)
	}

	var rows []teamStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get team stats: %w", err)
	}
	for _, row := range rows {
		out[row.TeamID] = row.toDomain()
	}
	return out, nil
}

func (r *TeamStatsRepository) DeleteComputedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := qb.DeleteFrom("team_stats").
		Where(qb.Lt("computed_at", cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete team stats query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete team stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete team stats rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *TeamStatsRepository) Summary(ctx context.Context) (teamstats.Summary, error) {
	query, args, err := qb.Select(
		"COUNT(1) AS total",
		"MIN(computed_at) AS oldest",
		"MAX(computed_at) AS newest",
	).From("team_stats").ToSQL()
	if err != nil {
		return teamstats.Summary{}, fmt.Errorf("build team stats summary query: %w", err)
	}

	var row summaryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return teamstats.Summary{}, fmt.Errorf("team stats summary: %w", err)
	}
	return teamstats.Summary{
		Count:  row.Total,
		Oldest: dayFromNullTime(row.Oldest),
		Newest: dayFromNullTime(row.Newest),
	}, nil
}
