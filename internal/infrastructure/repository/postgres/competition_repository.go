package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("competitions").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count competitions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count competitions: %w", err)
	}
	return count, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	query, args, err := qb.Select(competitionColumns...).From("competitions").OrderBy("code").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) GetByCode(ctx context.Context, code string) (competition.Competition, bool, error) {
	query, args, err := qb.Select(competitionColumns...).
		From("competitions").
		Where(qb.Eq("code", competition.NormalizeCode(code))).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition code=%s: %w", code, err)
	}
	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, items []competition.Competition) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx upsert competitions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	written := 0
	for _, item := range items {
		insertModel := competitionInsertFromDomain(item)
		if insertModel.Code == "" {
			continue
		}
		query, args, err := qb.UpsertModel("competitions", insertModel, []string{"code"}, "updated_at = NOW()")
		if err != nil {
			return 0, fmt.Errorf("build upsert competition query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert competition code=%s: %w", insertModel.Code, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert competitions tx: %w", err)
	}
	return written, nil
}

func (r *CompetitionRepository) TouchIngested(ctx context.Context, day string) (int, error) {
	query, args, err := qb.Update("competitions").
		Set("last_ingested_date", nullableDay(day)).
		SetExpr("updated_at", "NOW()").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build touch competitions query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("touch competitions day=%s: %w", day, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("touch competitions rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *CompetitionRepository) Summary(ctx context.Context) (competition.Summary, error) {
	query, args, err := qb.Select(
		"COUNT(1) AS total",
		"MIN(last_ingested_date) AS oldest",
		"MAX(last_ingested_date) AS newest",
	).From("competitions").ToSQL()
	if err != nil {
		return competition.Summary{}, fmt.Errorf("build competitions summary query: %w", err)
	}

	var row summaryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return competition.Summary{}, fmt.Errorf("competitions summary: %w", err)
	}
	return competition.Summary{
		Count:  row.Total,
		Oldest: dayFromNullTime(row.Oldest),
		Newest: dayFromNullTime(row.Newest),
	}, nil
}

type summaryRow struct {
	Total  int          `db:"total"`
	Oldest sql.NullTime `db:"oldest"`
	Newest sql.NullTime `db:"newest"`
}
