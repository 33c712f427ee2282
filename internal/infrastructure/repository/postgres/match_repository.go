package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Upsert(ctx context.Context, items []match.Match) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	written := 0
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		query, args, err := qb.UpsertModel("matches", matchInsertFromDomain(item), []string{"id"}, "updated_at = NOW()")
		if err != nil {
			return 0, fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert match id=%d: %w", item.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return written, nil
}

func (r *MatchRepository) Get(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%d: %w", id, err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) Find(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	order := []string{"utc_date ASC", "id ASC"}
	if filter.NewestFirst {
		order = []string{"utc_date DESC", "id DESC"}
	}

	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(matchConditions(filter)...).
		OrderBy(order...).
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Count(ctx context.Context, filter match.Filter) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("matches").
		Where(matchConditions(filter)...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) SetH2H(ctx context.Context, id int64, h2h match.H2H) error {
	query, args, err := qb.Update("matches").
		Set("h2h", jsonColumn[*match.H2H]{V: &h2h}).
		Set("h2h_last_updated", nullableDay(h2h.LastUpdated)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set match h2h query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set match h2h id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set match h2h rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%d", match.ErrNotFound, id)
	}
	return nil
}

func (r *MatchRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(
			qb.Eq("status", match.StatusFinished),
			qb.Lt("utc_date", cutoff.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete finished matches query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete finished matches: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete finished matches rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *MatchRepository) Summary(ctx context.Context) (match.Summary, error) {
	query, args, err := qb.Select(
		"COUNT(1) AS total",
		"COUNT(h2h) AS with_h2h",
		"COUNT(1) FILTER (WHERE status = 'FINISHED') AS finished",
		"COUNT(1) FILTER (WHERE status IN ('SCHEDULED', 'TIMED')) AS scheduled",
		"MIN(utc_date) AS oldest",
		"MAX(utc_date) AS newest",
	).From("matches").ToSQL()
	if err != nil {
		return match.Summary{}, fmt.Errorf("build matches summary query: %w", err)
	}

	var row matchSummaryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Summary{}, fmt.Errorf("matches summary: %w", err)
	}
	return match.Summary{
		Count:     row.Total,
		WithH2H:   row.WithH2H,
		Finished:  row.Finished,
		Scheduled: row.Scheduled,
		Oldest:    dayFromNullTime(row.Oldest),
		Newest:    dayFromNullTime(row.Newest),
	}, nil
}

type matchSummaryRow struct {
	summaryRow
	WithH2H   int `db:"with_h2h"`
	Finished  int `db:"finished"`
	Scheduled int `db:"scheduled"`
}

func matchConditions(filter match.Filter) []qb.Condition {
	conds := make([]qb.Condition, 0, 8)
	if len(filter.IDs) > 0 {
		conds = append(conds, qb.In("id", int64sToAny(filter.IDs)))
	}
	if codes := upperAll(filter.CompetitionCodes); len(codes) > 0 {
		conds = append(conds, qb.Expr("competition_code = ANY(?)", pq.Array(codes)))
	}
	if statuses := upperAll(filter.Statuses); len(statuses) > 0 {
		conds = append(conds, qb.Expr("status = ANY(?)", pq.Array(statuses)))
	}
	if !filter.KickoffFrom.IsZero() {
		conds = append(conds, qb.Gte("utc_date", filter.KickoffFrom.UTC()))
	}
	if !filter.KickoffBefore.IsZero() {
		conds = append(conds, qb.Lt("utc_date", filter.KickoffBefore.UTC()))
	}
	if filter.TeamID != 0 {
		conds = append(conds, qb.Expr("(home_team_id = ? OR away_team_id = ?)", filter.TeamID, filter.TeamID))
	}
	if filter.IngestedOn != "" {
		conds = append(conds, qb.Eq("ingested_at", filter.IngestedOn))
	}
	if filter.WithH2HOnly {
		conds = append(conds, qb.IsNotNull("h2h"))
	}
	if filter.H2HUpdatedOn != "" {
		conds = append(conds, qb.Eq("h2h_last_updated", filter.H2HUpdatedOn))
	}
	if filter.H2HNotUpdatedOn != "" {
		conds = append(conds, qb.Expr("(h2h_last_updated IS NULL OR h2h_last_updated <> ?)", filter.H2HNotUpdatedOn))
	}
	return conds
}
