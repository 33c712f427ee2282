package usecase

import (
	"sort"

	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
)

const analysisTopN = 5

type AnalysisSummary struct {
	TotalMatches            int            `json:"total_matches"`
	HighConfidenceHomeWins  int            `json:"high_confidence_home_wins"`
	Over25Count             int            `json:"over_2_5_count"`
	Under25Count            int            `json:"under_2_5_count"`
	AvgHomeWinProbability   float64        `json:"avg_home_win_probability"`
	AvgBTTSProbability      float64        `json:"avg_btts_probability"`
	HighConfidenceGoalsBets int            `json:"high_confidence_goals_bets"`
	MatchesByCompetition    map[string]int `json:"matches_by_competition"`
}

type AnalysisReport struct {
	TotalPredictions int                     `json:"total_predictions"`
	BestHomeWins     []prediction.Prediction `json:"best_home_wins"`
	BestGoalsBets    []prediction.Prediction `json:"best_goals_bets"`
	BestBTTS         []prediction.Prediction `json:"best_btts"`
	BestValueBets    []prediction.Prediction `json:"best_value_bets"`
	Summary          AnalysisSummary         `json:"summary"`
}

// AnalysisService derives betting shortlists from a set of predictions.
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

func (s *AnalysisService) Analyze(preds []prediction.Prediction) AnalysisReport {
	report := AnalysisReport{
		TotalPredictions: len(preds),
		BestHomeWins:     []prediction.Prediction{},
		BestGoalsBets:    []prediction.Prediction{},
		BestBTTS:         []prediction.Prediction{},
		BestValueBets:    []prediction.Prediction{},
		Summary:          AnalysisSummary{MatchesByCompetition: map[string]int{}},
	}
	if len(preds) == 0 {
		return report
	}

	report.BestHomeWins = topBy(preds, func(p prediction.Prediction) (float64, bool) {
		return p.HomeWinProbability, p.HomeWinConfidence == prediction.ConfidenceHigh && p.HomeWinProbability >= 0.80
	})
	report.BestGoalsBets = topBy(preds, func(p prediction.Prediction) (float64, bool) {
		return p.Goals.Probability, p.Goals.Confidence == prediction.ConfidenceHigh
	})
	report.BestBTTS = topBy(preds, func(p prediction.Prediction) (float64, bool) {
		strong := p.BTTSConfidence == prediction.ConfidenceHigh || p.BTTSConfidence == prediction.ConfidenceMedium
		return p.BTTSProbability, strong && p.BTTSProbability >= 0.65
	})
	// The pipeline has no market odds feed and never sets ValueScore, so this
	// bucket stays empty unless stored predictions carry a value score.
	report.BestValueBets = topBy(preds, func(p prediction.Prediction) (float64, bool) {
		if p.ValueScore == nil {
			return 0, false
		}
		return *p.ValueScore, *p.ValueScore > 0.15 && p.HomeWinProbability >= 0.65
	})

	summary := &report.Summary
	summary.TotalMatches = len(preds)
	var homeSum, bttsSum float64
	for _, p := range preds {
		if p.HomeWinConfidence == prediction.ConfidenceHigh {
			summary.HighConfidenceHomeWins++
		}
		switch p.Goals.Bet {
		case prediction.BetOver:
			summary.Over25Count++
		case prediction.BetUnder:
			summary.Under25Count++
		}
		if p.Goals.Confidence == prediction.ConfidenceHigh {
			summary.HighConfidenceGoalsBets++
		}
		homeSum += p.HomeWinProbability
		bttsSum += p.BTTSProbability

		name := p.Competition
		if name == "" {
			name = p.CompetitionCode
		}
		summary.MatchesByCompetition[name]++
	}
	summary.AvgHomeWinProbability = round3(homeSum / float64(len(preds)))
	summary.AvgBTTSProbability = round3(bttsSum / float64(len(preds)))
	return report
}

// TopPicks ranks preds by composite score and keeps the first limit.
func (s *AnalysisService) TopPicks(preds []prediction.Prediction, limit int) []prediction.Scored {
	return prediction.RankScored(preds, limit)
}

// topBy keeps the items selected by key, highest value first, capped at analysisTopN.
func topBy(preds []prediction.Prediction, key func(prediction.Prediction) (float64, bool)) []prediction.Prediction {
	type keyed struct {
		item  prediction.Prediction
		value float64
	}
	picked := make([]keyed, 0, len(preds))
	for _, p := range preds {
		if value, ok := key(p); ok {
			picked = append(picked, keyed{item: p, value: value})
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].value > picked[j].value })

	out := make([]prediction.Prediction, 0, min(len(picked), analysisTopN))
	for idx := 0; idx < len(picked) && idx < analysisTopN; idx++ {
		out = append(out, picked[idx].item)
	}
	return out
}
