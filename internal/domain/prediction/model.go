package prediction

import "time"

// Method tags how a prediction was produced.
type Method string

const (
	MethodStatsOnly  Method = "Team Stats Only"
	MethodH2HBlended Method = "H2H + Team Stats"
)

func (m Method) Valid() bool {
	switch m {
	case MethodStatsOnly, MethodH2HBlended:
		return true
	default:
		return false
	}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

const (
	OutcomeHomeWin = "Home Win"
	OutcomeDraw    = "Draw"
	OutcomeAwayWin = "Away Win"

	BetOver  = "Over 2.5"
	BetUnder = "Under 2.5"
)

type GoalsPrediction struct {
	Bet         string     `json:"bet"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
}

// Prediction is the per-fixture output of the model, partitioned by CreatedAt day.
type Prediction struct {
	MatchID                     int64           `json:"match_id"`
	Match                       string          `json:"match"`
	Competition                 string          `json:"competition"`
	CompetitionCode             string          `json:"competition_code"`
	CompetitionEmblem           string          `json:"competition_emblem,omitempty"`
	HomeTeam                    string          `json:"home_team"`
	HomeTeamCrest               string          `json:"home_team_crest,omitempty"`
	AwayTeam                    string          `json:"away_team"`
	AwayTeamCrest               string          `json:"away_team_crest,omitempty"`
	UTCDate                     time.Time       `json:"utc_date"`
	Matchday                    *int            `json:"matchday,omitempty"`
	HomeWinProbability          float64         `json:"home_win_probability"`
	HomeWinConfidence           Confidence      `json:"home_win_confidence"`
	DrawProbability             float64         `json:"draw_probability"`
	DrawConfidence              Confidence      `json:"draw_confidence"`
	AwayWinProbability          float64         `json:"away_win_probability"`
	AwayWinConfidence           Confidence      `json:"away_win_confidence"`
	PredictedOutcome            string          `json:"predicted_outcome"`
	PredictedOutcomeProbability float64         `json:"predicted_outcome_probability"`
	Goals                       GoalsPrediction `json:"goals_prediction"`
	BTTSProbability             float64         `json:"btts_probability"`
	BTTSConfidence              Confidence      `json:"btts_confidence"`
	Method                      Method          `json:"prediction_method"`
	H2HAvailable                bool            `json:"h2h_available"`
	ValueScore                  *float64        `json:"value_score,omitempty"`
	CreatedAt                   string          `json:"created_at"`
}

type Summary struct {
	Count  int
	Oldest string
	Newest string
}
