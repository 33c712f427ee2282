package blending

import (
	"math"
	"testing"

	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
)

const eps = 1e-9

func TestH2HWeight(t *testing.T) {
	t.Parallel()

	cases := map[int]float64{
		-1: 0.2,
		0:  0.2,
		1:  0.3,
		3:  0.5,
		7:  0.9,
		8:  0.9,
		50: 0.9,
	}
	for n, want := range cases {
		if got := H2HWeight(n); math.Abs(got-want) > eps {
			t.Fatalf("unexpected h2h weight n=%d: got=%v want=%v", n, got, want)
		}
	}
	for n := 0; n < 200; n++ {
		if got := H2HWeight(n); got > 0.9+eps {
			t.Fatalf("h2h weight exceeds cap n=%d: %v", n, got)
		}
	}
}

func TestBlendOutcome_EmptySampleEqualsLeagueRates(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	got := p.BlendOutcome(Features{SampleCount: 0}, nil, nil)

	assertClose(t, "home", got.Home, 0.45)
	assertClose(t, "draw", got.Draw, 0.27)
	assertClose(t, "away", got.Away, 0.28)
}

func TestBlendOutcome_SumsToOneWithFloor(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	strong := &teamstats.TeamStats{Form: 3, GoalsFor: 4, GoalsAgainst: 0}
	weak := &teamstats.TeamStats{Form: 0, GoalsFor: 0, GoalsAgainst: 4}

	featureSet := []Features{
		{SampleCount: 0},
		{HomeWinRatio: 1, SampleCount: 10},
		{AwayWinRatio: 1, SampleCount: 10},
		{DrawRatio: 1, SampleCount: 2},
		{HomeWinRatio: 0.5, DrawRatio: 0.25, AwayWinRatio: 0.25, SampleCount: 4},
	}
	statPairs := [][2]*teamstats.TeamStats{
		{nil, nil},
		{strong, weak},
		{weak, strong},
		{strong, strong},
	}

	for _, f := range featureSet {
		for _, pair := range statPairs {
			got := p.BlendOutcome(f, pair[0], pair[1])
			assertValidOutcome(t, got)
		}
	}
}

func TestBlendOutcome_FormShiftsTowardStrongerSide(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	f := Features{HomeWinRatio: 0.4, DrawRatio: 0.3, AwayWinRatio: 0.3, SampleCount: 5}
	strong := &teamstats.TeamStats{Form: 2.5, GoalsFor: 2.2, GoalsAgainst: 0.7}
	weak := &teamstats.TeamStats{Form: 0.8, GoalsFor: 0.8, GoalsAgainst: 2.0}

	neutral := p.BlendOutcome(f, nil, nil)
	homeStrong := p.BlendOutcome(f, strong, weak)
	awayStrong := p.BlendOutcome(f, weak, strong)

	if homeStrong.Home <= neutral.Home {
		t.Fatalf("expected home probability to rise: got=%v base=%v", homeStrong.Home, neutral.Home)
	}
	if awayStrong.Away <= neutral.Away {
		t.Fatalf("expected away probability to rise: got=%v base=%v", awayStrong.Away, neutral.Away)
	}
	if homeStrong.Draw >= neutral.Draw {
		t.Fatalf("expected mismatch to shrink draw: got=%v base=%v", homeStrong.Draw, neutral.Draw)
	}
}

func TestOverProbability_ExpectedEqualsLineIsCoinFlip(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	f := Features{AvgTotalGoals: 2.5, SampleCount: 4}
	assertClose(t, "over without stats", p.OverProbability(f, nil, nil, 2.5), 0.5)

	home := &teamstats.TeamStats{GoalsFor: 1.5, GoalsAgainst: 1.0}
	away := &teamstats.TeamStats{GoalsFor: 1.25, GoalsAgainst: 1.25}
	assertClose(t, "over with stats", p.OverProbability(f, home, away, 2.5), 0.5)

	assertClose(t, "stats only", p.StatsOnlyOver(home, away, 2.5), 0.5)
}

func TestBTTSProbability_UsesWeakestSide(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	balanced := Features{HomeAvgGoals: 1.5, AwayAvgGoals: 1.5, SampleCount: 5}
	lopsided := Features{HomeAvgGoals: 3.0, AwayAvgGoals: 0.3, SampleCount: 5}

	if p.BTTSProbability(lopsided, nil, nil) >= p.BTTSProbability(balanced, nil, nil) {
		t.Fatalf("expected a goal-shy side to lower btts")
	}
	assertClose(t, "btts at threshold", p.BTTSProbability(Features{HomeAvgGoals: 0.8, AwayAvgGoals: 2}, nil, nil), 0.5)
}

func TestStatsOnlyOutcome_HeavyMismatchFavoursHome(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	home := &teamstats.TeamStats{Form: 1.5, GoalsFor: 2.0, GoalsAgainst: 0.5}
	away := &teamstats.TeamStats{Form: 1.5, GoalsFor: 0.5, GoalsAgainst: 2.0}

	got := p.StatsOnlyOutcome(home, away)
	assertValidOutcome(t, got)
	if got.Home <= 0.7 {
		t.Fatalf("expected home win probability > 0.7, got %v", got.Home)
	}

	res := p.Predict(Input{HomeTeamID: 1, AwayTeamID: 2, Home: home, Away: away})
	if res.Method != prediction.MethodStatsOnly {
		t.Fatalf("unexpected method: got=%q want=%q", res.Method, prediction.MethodStatsOnly)
	}
	if res.Outcome.Home <= 0.7 {
		t.Fatalf("expected predicted home win probability > 0.7, got %v", res.Outcome.Home)
	}
	if res.Predicted != prediction.OutcomeHomeWin || res.HomeConf != prediction.ConfidenceHigh {
		t.Fatalf("unexpected predicted outcome: %s (%s)", res.Predicted, res.HomeConf)
	}
}

func TestStatsOnlyOutcome_MissingStatsNeverFails(t *testing.T) {
	t.Parallel()

	got := DefaultParams().StatsOnlyOutcome(nil, nil)
	assertValidOutcome(t, got)
	if got.Home <= got.Away {
		t.Fatalf("expected home advantage for identical teams: %+v", got)
	}
}

func TestExtractH2HFeatures_ReorientsEachMeeting(t *testing.T) {
	t.Parallel()

	const homeID, awayID = int64(57), int64(61)
	h2h := &match.H2H{
		Matches: []match.Match{
			finished(homeID, awayID, 2, 0), // fixture home won at home
			finished(awayID, homeID, 1, 3), // fixture home won away
			finished(awayID, homeID, 2, 1), // fixture away won at home
			finished(homeID, awayID, 1, 1),
			{Status: match.StatusScheduled, HomeTeam: match.TeamRef{ID: homeID}, AwayTeam: match.TeamRef{ID: awayID}},
		},
		Aggregates: match.H2HAggregates{NumberOfMatches: 5},
	}

	got := ExtractH2HFeatures(h2h, homeID, awayID)
	if got.SampleCount != 4 {
		t.Fatalf("unexpected sample count: got=%d want=4", got.SampleCount)
	}
	assertClose(t, "home ratio", got.HomeWinRatio, 0.5)
	assertClose(t, "draw ratio", got.DrawRatio, 0.25)
	assertClose(t, "away ratio", got.AwayWinRatio, 0.25)
	assertClose(t, "home goals", got.HomeAvgGoals, (2.0+3+1+1)/4)
	assertClose(t, "away goals", got.AwayAvgGoals, (0.0+1+2+1)/4)
	assertClose(t, "total goals", got.AvgTotalGoals, 11.0/4)
}

func TestExtractH2HFeatures_NoFinishedMeetingsIsNeutral(t *testing.T) {
	t.Parallel()

	if got := ExtractH2HFeatures(nil, 1, 2); got != NeutralFeatures() {
		t.Fatalf("unexpected features for nil h2h: %+v", got)
	}
	if got := ExtractH2HFeatures(&match.H2H{}, 1, 2); got != NeutralFeatures() {
		t.Fatalf("unexpected features for empty h2h: %+v", got)
	}
}

func TestPredict_EmptyH2HCacheUsesLeagueRates(t *testing.T) {
	t.Parallel()

	res := DefaultParams().Predict(Input{HomeTeamID: 1, AwayTeamID: 2, H2H: &match.H2H{LastUpdated: "2026-10-18"}})
	if res.Method != prediction.MethodH2HBlended {
		t.Fatalf("unexpected method: %q", res.Method)
	}
	assertClose(t, "home", res.Outcome.Home, 0.45)
	assertClose(t, "draw", res.Outcome.Draw, 0.27)
	assertClose(t, "away", res.Outcome.Away, 0.28)
	assertClose(t, "over", res.Over, 0.5)
	if res.GoalsBet != prediction.BetUnder {
		t.Fatalf("expected tie to resolve to under, got %q", res.GoalsBet)
	}
}

func TestThresholdsLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		th   Thresholds
		p    float64
		want prediction.Confidence
	}{
		{OutcomeThresholds, 0.60, prediction.ConfidenceHigh},
		{OutcomeThresholds, 0.45, prediction.ConfidenceMedium},
		{OutcomeThresholds, 0.44, prediction.ConfidenceLow},
		{DrawThresholds, 0.40, prediction.ConfidenceHigh},
		{DrawThresholds, 0.31, prediction.ConfidenceMedium},
		{MarketThresholds, 0.74, prediction.ConfidenceMedium},
		{MarketThresholds, 0.75, prediction.ConfidenceHigh},
		{MarketThresholds, 0.59, prediction.ConfidenceLow},
	}
	for _, tc := range cases {
		if got := tc.th.Label(tc.p); got != tc.want {
			t.Fatalf("unexpected label for %v with %+v: got=%s want=%s", tc.p, tc.th, got, tc.want)
		}
	}
}

func assertValidOutcome(t *testing.T, o Outcome) {
	t.Helper()
	if math.Abs(o.Sum()-1) > 1e-9 {
		t.Fatalf("outcome does not sum to one: %+v (sum=%v)", o, o.Sum())
	}
	for name, v := range map[string]float64{"home": o.Home, "draw": o.Draw, "away": o.Away} {
		if v < 0.05-1e-12 {
			t.Fatalf("%s below floor: %+v", name, o)
		}
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("unexpected %s: got=%v want=%v", name, got, want)
	}
}

func finished(homeID, awayID int64, homeGoals, awayGoals int) match.Match {
	return match.Match{
		Status:   match.StatusFinished,
		HomeTeam: match.TeamRef{ID: homeID},
		AwayTeam: match.TeamRef{ID: awayID},
		Score: match.Score{FullTime: match.Goals{
			Home: &homeGoals,
			Away: &awayGoals,
		}},
	}
}
