package blending

import (
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
)

// Thresholds map a probability to a confidence label.
type Thresholds struct {
	High   float64
	Medium float64
}

var (
	OutcomeThresholds = Thresholds{High: 0.60, Medium: 0.45}
	DrawThresholds    = Thresholds{High: 0.40, Medium: 0.30}
	MarketThresholds  = Thresholds{High: 0.75, Medium: 0.60}
)

func (t Thresholds) Label(probability float64) prediction.Confidence {
	switch {
	case probability >= t.High:
		return prediction.ConfidenceHigh
	case probability >= t.Medium:
		return prediction.ConfidenceMedium
	default:
		return prediction.ConfidenceLow
	}
}

type Input struct {
	HomeTeamID int64
	AwayTeamID int64
	H2H        *match.H2H
	Home       *teamstats.TeamStats
	Away       *teamstats.TeamStats
}

type Result struct {
	Outcome     Outcome
	Over        float64
	Under       float64
	BTTS        float64
	Method      prediction.Method
	Features    Features
	Line        float64
	GoalsBet    string
	GoalsProb   float64
	Predicted   string
	PredictedP  float64
	HomeConf    prediction.Confidence
	DrawConf    prediction.Confidence
	AwayConf    prediction.Confidence
	GoalsConf   prediction.Confidence
	BTTSConf    prediction.Confidence
	SampleCount int
}

// Predict never fails: a fixture without an H2H cache goes through the
// stats-only path, and missing team stats fall back to neutral values.
func (p Params) Predict(in Input) Result {
	line := p.GoalsLine
	res := Result{Line: line}

	if in.H2H != nil {
		f := ExtractH2HFeatures(in.H2H, in.HomeTeamID, in.AwayTeamID)
		res.Features = f
		res.SampleCount = f.SampleCount
		res.Outcome = p.BlendOutcome(f, in.Home, in.Away)
		res.Over = p.OverProbability(f, in.Home, in.Away, line)
		res.BTTS = p.BTTSProbability(f, in.Home, in.Away)
		res.Method = prediction.MethodH2HBlended
	} else {
		res.Features = NeutralFeatures()
		res.Outcome = p.StatsOnlyOutcome(in.Home, in.Away)
		res.Over = p.StatsOnlyOver(in.Home, in.Away, line)
		res.BTTS = p.StatsOnlyBTTS(in.Home, in.Away)
		res.Method = prediction.MethodStatsOnly
	}
	res.Under = 1 - res.Over

	if res.Over > res.Under {
		res.GoalsBet, res.GoalsProb = prediction.BetOver, res.Over
	} else {
		res.GoalsBet, res.GoalsProb = prediction.BetUnder, res.Under
	}

	res.Predicted, res.PredictedP = prediction.OutcomeHomeWin, res.Outcome.Home
	if res.Outcome.Draw > res.PredictedP {
		res.Predicted, res.PredictedP = prediction.OutcomeDraw, res.Outcome.Draw
	}
	if res.Outcome.Away > res.PredictedP {
		res.Predicted, res.PredictedP = prediction.OutcomeAwayWin, res.Outcome.Away
	}

	res.HomeConf = OutcomeThresholds.Label(res.Outcome.Home)
	res.AwayConf = OutcomeThresholds.Label(res.Outcome.Away)
	res.DrawConf = DrawThresholds.Label(res.Outcome.Draw)
	res.GoalsConf = MarketThresholds.Label(res.GoalsProb)
	res.BTTSConf = MarketThresholds.Label(res.BTTS)
	return res
}
