package prediction

import (
	"math"
	"testing"
)

func TestCompositeScore(t *testing.T) {
	t.Parallel()

	value := 0.2
	negative := -0.4
	base := Prediction{
		HomeWinProbability: 0.5,
		Goals:              GoalsPrediction{Probability: 0.6},
		BTTSProbability:    0.7,
	}

	withValue := base
	withValue.ValueScore = &value
	withNegative := base
	withNegative.ValueScore = &negative

	cases := []struct {
		name string
		in   Prediction
		want float64
	}{
		{name: "missing value counts as zero", in: base, want: 0.5*0.4 + 0.6*0.3 + 0.7*0.2},
		{name: "positive value adds tenth", in: withValue, want: 0.5*0.4 + 0.6*0.3 + 0.7*0.2 + 0.02},
		{name: "negative value clipped", in: withNegative, want: 0.5*0.4 + 0.6*0.3 + 0.7*0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompositeScore(tc.in); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("unexpected composite score: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestRank_SortsDescendingAndLimits(t *testing.T) {
	t.Parallel()

	items := []Prediction{
		{MatchID: 1, HomeWinProbability: 0.2},
		{MatchID: 2, HomeWinProbability: 0.9},
		{MatchID: 3, HomeWinProbability: 0.5},
		{MatchID: 4, HomeWinProbability: 0.7},
	}

	got := Rank(items, 3)
	if len(got) != 3 {
		t.Fatalf("unexpected ranked length: got=%d want=3", len(got))
	}
	want := []int64{2, 4, 3}
	for i, id := range want {
		if got[i].MatchID != id {
			t.Fatalf("unexpected order at %d: got=%d want=%d", i, got[i].MatchID, id)
		}
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	items := []Prediction{
		{MatchID: 10, HomeWinProbability: 0.4},
		{MatchID: 11, HomeWinProbability: 0.4},
		{MatchID: 12, HomeWinProbability: 0.4},
	}

	got := Rank(items, 0)
	for i, item := range items {
		if got[i].MatchID != item.MatchID {
			t.Fatalf("unexpected tie order at %d: got=%d want=%d", i, got[i].MatchID, item.MatchID)
		}
	}
}

func TestRankScored_AttachesScore(t *testing.T) {
	t.Parallel()

	got := RankScored([]Prediction{{MatchID: 1, HomeWinProbability: 1}}, 5)
	if len(got) != 1 || math.Abs(got[0].CompositeScore-0.4) > 1e-9 {
		t.Fatalf("unexpected scored output: %+v", got)
	}
}
