package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ReplaceForDay(ctx context.Context, day string, items []prediction.Prediction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("predictions").
		Where(qb.Eq("created_at", day)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear predictions query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear predictions day=%s: %w", day, err)
	}

	for _, item := range items {
		query, args, err := qb.UpsertModel("predictions", predictionInsertFromDomain(day, item), []string{"match_id", "created_at"})
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction match=%d day=%s: %w", item.MatchID, day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace predictions tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByDay(ctx context.Context, day string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(predictionColumns...).
		From("predictions").
		Where(qb.Eq("created_at", day)).
		OrderBy("utc_date", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions day=%s: %w", day, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) DeleteCreatedBefore(ctx context.Context, day string) (int, error) {
	query, args, err := qb.DeleteFrom("predictions").
		Where(qb.Lt("created_at", day)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete predictions query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete predictions before=%s: %w", day, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete predictions rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *PredictionRepository) Summary(ctx context.Context) (prediction.Summary, error) {
	query, args, err := qb.Select(
		"COUNT(1) AS total",
		"MIN(created_at)::timestamptz AS oldest",
		"MAX(created_at)::timestamptz AS newest",
	).From("predictions").ToSQL()
	if err != nil {
		return prediction.Summary{}, fmt.Errorf("build predictions summary query: %w", err)
	}

	var row summaryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Summary{}, fmt.Errorf("predictions summary: %w", err)
	}
	return prediction.Summary{
		Count:  row.Total,
		Oldest: dayFromNullTime(row.Oldest),
		Newest: dayFromNullTime(row.Newest),
	}, nil
}
