package blending

// Params holds the tunable constants of the model. They are hand-tuned
// heuristics, not fitted values.
type Params struct {
	LeagueHome float64
	LeagueDraw float64
	LeagueAway float64

	H2HWeightBase float64
	H2HWeightStep float64
	H2HWeightCap  float64

	FormScale  float64
	GoalScale  float64
	FormNudge  float64
	DrawShrink float64
	Floor      float64

	GoalsLine      float64
	GoalsScale     float64
	GoalsH2HWeight float64

	BTTSThreshold float64
	BTTSScale     float64

	HomeAdvantage    float64
	LegacyFormWeight float64
	LegacyGoalWeight float64
	LegacyDrawScale  float64

	NeutralForm  float64
	NeutralGoals float64
}

func DefaultParams() Params {
	return Params{
		LeagueHome: 0.45,
		LeagueDraw: 0.27,
		LeagueAway: 0.28,

		H2HWeightBase: 0.2,
		H2HWeightStep: 0.1,
		H2HWeightCap:  0.9,

		FormScale:  0.5,
		GoalScale:  0.3,
		FormNudge:  0.15,
		DrawShrink: 0.3,
		Floor:      0.05,

		GoalsLine:      2.5,
		GoalsScale:     1.0,
		GoalsH2HWeight: 0.6,

		BTTSThreshold: 0.8,
		BTTSScale:     2.0,

		HomeAdvantage:    0.5,
		LegacyFormWeight: 0.8,
		LegacyGoalWeight: 0.6,
		LegacyDrawScale:  0.35,

		NeutralForm:  1.5,
		NeutralGoals: 1.5,
	}
}

// H2HWeight is the share given to an H2H sample of n finished meetings.
func (p Params) H2HWeight(n int) float64 {
	if n < 0 {
		n = 0
	}
	w := p.H2HWeightBase + p.H2HWeightStep*float64(n)
	if w > p.H2HWeightCap {
		return p.H2HWeightCap
	}
	return w
}

// H2HWeight uses the default constants: min(0.9, 0.2 + 0.1n).
func H2HWeight(n int) float64 {
	return DefaultParams().H2HWeight(n)
}

func (p Params) leagueRates() Outcome {
	return Outcome{Home: p.LeagueHome, Draw: p.LeagueDraw, Away: p.LeagueAway}
}
