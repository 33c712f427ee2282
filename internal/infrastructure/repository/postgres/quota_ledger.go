package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

// QuotaLedger stores per-day counters in h2h_quota_ledger. Reserve is a single
// conditional upsert, so the ceiling holds across processes.
type QuotaLedger struct {
	db *sqlx.DB
}

func NewQuotaLedger(db *sqlx.DB) *QuotaLedger {
	return &QuotaLedger{db: db}
}

func (l *QuotaLedger) Used(ctx context.Context, day string) (int, error) {
	query, args, err := qb.Select("COALESCE(MAX(used), 0)").
		From("h2h_quota_ledger").
		Where(qb.Eq("day", day)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build quota used query: %w", err)
	}

	var used int
	if err := l.db.GetContext(ctx, &used, query, args...); err != nil {
		return 0, fmt.Errorf("quota used day=%s: %w", day, err)
	}
	return used, nil
}

func (l *QuotaLedger) Reconcile(ctx context.Context, day string, floor int) (int, error) {
	if floor < 0 {
		floor = 0
	}
	query, args, err := qb.InsertInto("h2h_quota_ledger").
		Columns("day", "used").
		Values(day, floor).
		Suffix(`ON CONFLICT (day)
DO UPDATE SET
    used = GREATEST(h2h_quota_ledger.used, EXCLUDED.used),
    updated_at = NOW()
RETURNING used`).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build quota reconcile query: %w", err)
	}

	var used int
	if err := l.db.GetContext(ctx, &used, query, args...); err != nil {
		return 0, fmt.Errorf("quota reconcile day=%s: %w", day, err)
	}
	return used, nil
}

func (l *QuotaLedger) Reserve(ctx context.Context, day string, ceiling int) (bool, error) {
	if ceiling <= 0 {
		return false, nil
	}
	query, args, err := qb.InsertInto("h2h_quota_ledger").
		Columns("day", "used").
		Values(day, 1).
		Suffix(`ON CONFLICT (day)
DO UPDATE SET
    used = h2h_quota_ledger.used + 1,
    updated_at = NOW()
WHERE h2h_quota_ledger.used < ?
RETURNING used`, ceiling).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build quota reserve query: %w", err)
	}

	var used int
	if err := l.db.GetContext(ctx, &used, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("quota reserve day=%s: %w", day, err)
	}
	return true, nil
}

func (l *QuotaLedger) Release(ctx context.Context, day string) error {
	query, args, err := qb.Update("h2h_quota_ledger").
		SetExpr("used", "GREATEST(used - 1, 0)").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("day", day)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build quota release query: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("quota release day=%s: %w", day, err)
	}
	return nil
}
