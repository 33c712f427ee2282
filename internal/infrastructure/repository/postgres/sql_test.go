package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/match"
)

func TestJSONColumn_ValueAndScan(t *testing.T) {
	t.Run("nil pointer is written as NULL", func(t *testing.T) {
		value, err := jsonColumn[*match.H2H]{}.Value()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != nil {
			t.Fatalf("expected NULL, got %v", value)
		}
	})

	t.Run("round trips a struct", func(t *testing.T) {
		in := jsonColumn[match.TeamRef]{V: match.TeamRef{ID: 57, Name: "Arsenal FC", TLA: "ARS"}}
		value, err := in.Value()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var out jsonColumn[match.TeamRef]
		if err := out.Scan([]byte(value.(string))); err != nil {
			t.Fatalf("unexpected scan error: %v", err)
		}
		if out.V != in.V {
			t.Fatalf("unexpected round trip: got=%+v want=%+v", out.V, in.V)
		}
	})

	t.Run("scanning NULL resets the value", func(t *testing.T) {
		out := jsonColumn[*match.H2H]{V: &match.H2H{LastUpdated: "2026-10-18"}}
		if err := out.Scan(nil); err != nil {
			t.Fatalf("unexpected scan error: %v", err)
		}
		if out.V != nil {
			t.Fatalf("expected nil after NULL scan")
		}
	})
}

func TestNullableDay(t *testing.T) {
	if got := nullableDay("  "); got.Valid {
		t.Fatalf("expected blank day to be NULL")
	}
	if got := nullableDay("2026-10-18"); !got.Valid || got.String != "2026-10-18" {
		t.Fatalf("unexpected day: %+v", got)
	}
}

func TestDayFromNullTime(t *testing.T) {
	if got := dayFromNullTime(sql.NullTime{}); got != "" {
		t.Fatalf("expected empty day, got %q", got)
	}
	value := sql.NullTime{Time: time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC), Valid: true}
	if got := dayFromNullTime(value); got != "2026-10-18" {
		t.Fatalf("unexpected day: %q", got)
	}
}

func TestMatchConditions(t *testing.T) {
	conds := matchConditions(match.Filter{
		CompetitionCodes: []string{"pl"},
		TeamID:           57,
		H2HNotUpdatedOn:  "2026-10-18",
	})
	if len(conds) != 3 {
		t.Fatalf("unexpected condition count: got=%d want=3", len(conds))
	}
}
