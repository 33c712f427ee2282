package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
)

func TestPredictionRepository_ReplaceForDayDropsStaleRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()

	_ = repo.ReplaceForDay(ctx, "2026-10-17", []prediction.Prediction{{MatchID: 9}})
	_ = repo.ReplaceForDay(ctx, "2026-10-18", []prediction.Prediction{{MatchID: 1}, {MatchID: 2}})
	if err := repo.ReplaceForDay(ctx, "2026-10-18", []prediction.Prediction{{MatchID: 2}, {MatchID: 3}}); err != nil {
		t.Fatalf("unexpected replace error: %v", err)
	}

	items, err := repo.ListByDay(ctx, "2026-10-18")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(items) != 2 || items[0].MatchID != 2 || items[1].MatchID != 3 {
		t.Fatalf("unexpected predictions: %+v", items)
	}
	if items[0].CreatedAt != "2026-10-18" {
		t.Fatalf("expected created_at to be the partition day, got %q", items[0].CreatedAt)
	}

	deleted, err := repo.DeleteCreatedBefore(ctx, "2026-10-18")
	if err != nil || deleted != 1 {
		t.Fatalf("unexpected delete result: deleted=%d err=%v", deleted, err)
	}
	summary, _ := repo.Summary(ctx)
	if summary.Count != 2 || summary.Oldest != "2026-10-18" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
