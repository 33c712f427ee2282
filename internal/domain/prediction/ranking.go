package prediction

import (
	"math"
	"sort"
)

const (
	weightOutcome = 0.4
	weightGoals   = 0.3
	weightBTTS    = 0.2
	weightValue   = 0.1
)

// Scored pairs a prediction with its composite score.
type Scored struct {
	Prediction
	CompositeScore float64 `json:"composite_score"`
}

// CompositeScore weights home-win, goals-bet and BTTS probabilities plus any
// positive value edge. A missing value score counts as zero.
func CompositeScore(p Prediction) float64 {
	value := 0.0
	if p.ValueScore != nil {
		value = math.Max(*p.ValueScore, 0)
	}
	return p.HomeWinProbability*weightOutcome +
		p.Goals.Probability*weightGoals +
		p.BTTSProbability*weightBTTS +
		value*weightValue
}

// RankScored orders items by composite score, highest first. Equal scores keep
// their input order. A non-positive limit returns every item.
func RankScored(items []Prediction, limit int) []Scored {
	out := make([]Scored, 0, len(items))
	for _, item := range items {
		out = append(out, Scored{Prediction: item, CompositeScore: CompositeScore(item)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositeScore > out[j].CompositeScore
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func Rank(items []Prediction, limit int) []Prediction {
	scored := RankScored(items, limit)
	out := make([]Prediction, 0, len(scored))
	for _, item := range scored {
		out = append(out, item.Prediction)
	}
	return out
}
