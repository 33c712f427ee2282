package teamstats

import "time"

// TeamStats is the rolling form summary of one team. It is overwritten on
// every recomputation.
type TeamStats struct {
	TeamID          int64
	CompetitionCode string
	Form            float64
	GoalsFor        float64
	GoalsAgainst    float64
	GamesPlayed     int
	HomeForm        *float64
	AwayForm        *float64
	ComputedAt      time.Time
	Fallback        bool
}

// GoalDifference is the per-game goal differential.
func (s TeamStats) GoalDifference() float64 {
	return s.GoalsFor - s.GoalsAgainst
}

type Summary struct {
	Count  int
	Oldest string
	Newest string
}
