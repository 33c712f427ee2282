package teamstats

import "testing"

func TestFallbackStats_IsDeterministic(t *testing.T) {
	t.Parallel()

	first := FallbackStats(57, "PL")
	second := FallbackStats(57, "pl")
	if first != second {
		t.Fatalf("unexpected fallback drift: got=%+v want=%+v", second, first)
	}
}

func TestFallbackStats_StaysInsideRanges(t *testing.T) {
	t.Parallel()

	for _, league := range []string{"", "PL", "BL1", "ELC", "XX"} {
		for teamID := int64(1); teamID <= 200; teamID++ {
			got := FallbackStats(teamID, league)
			if got.Form < fallbackFormMin || got.Form > fallbackFormMax {
				t.Fatalf("form out of range team=%d league=%q: %v", teamID, league, got.Form)
			}
			if got.GoalsFor < fallbackGoalsMin || got.GoalsFor > fallbackGoalsMax {
				t.Fatalf("goals_for out of range team=%d league=%q: %v", teamID, league, got.GoalsFor)
			}
			if got.GoalsAgainst < fallbackGoalsMin || got.GoalsAgainst > fallbackGoalsMax {
				t.Fatalf("goals_against out of range team=%d league=%q: %v", teamID, league, got.GoalsAgainst)
			}
			if !got.Fallback || got.TeamID != teamID {
				t.Fatalf("unexpected identity fields: %+v", got)
			}
		}
	}
}

func TestFallbackStats_LeagueChangesSeed(t *testing.T) {
	t.Parallel()

	differs := false
	for teamID := int64(1); teamID <= 20; teamID++ {
		if FallbackStats(teamID, "PL") != FallbackStats(teamID, "PD") {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatalf("expected league to influence fallback stats")
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	cases := map[float64]float64{
		1.234:  1.23,
		2.0:    2.0,
		0.3333: 0.33,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("unexpected Round2(%v): got=%v want=%v", in, got, want)
		}
	}
}
