package blending

import "github.com/riskibarqy/football-predictions/internal/domain/match"

// Features summarises an H2H cache from the requesting fixture's point of view.
type Features struct {
	HomeWinRatio  float64
	DrawRatio     float64
	AwayWinRatio  float64
	AvgTotalGoals float64
	HomeAvgGoals  float64
	AwayAvgGoals  float64
	SampleCount   int
}

func NeutralFeatures() Features {
	return Features{
		HomeWinRatio:  0.33,
		DrawRatio:     0.34,
		AwayWinRatio:  0.33,
		AvgTotalGoals: 2.5,
		HomeAvgGoals:  1.25,
		AwayAvgGoals:  1.25,
	}
}

// ExtractH2HFeatures counts results and goals per finished meeting, re-oriented
// so "home" always means the fixture's home team regardless of who hosted the
// historical match. Provider aggregates are ignored because their orientation
// follows the historical fixture.
func ExtractH2HFeatures(h2h *match.H2H, homeTeamID, awayTeamID int64) Features {
	var (
		sample    int
		homeWins  int
		draws     int
		awayWins  int
		homeGoals int
		awayGoals int
	)

	for _, item := range h2h.FinishedMatches() {
		hg, ag, _ := item.FullTimeGoals()

		var forHome, forAway int
		switch {
		case item.HomeTeam.ID == homeTeamID || item.AwayTeam.ID == awayTeamID:
			forHome, forAway = hg, ag
		case item.HomeTeam.ID == awayTeamID || item.AwayTeam.ID == homeTeamID:
			forHome, forAway = ag, hg
		default:
			continue
		}

		sample++
		homeGoals += forHome
		awayGoals += forAway
		switch {
		case forHome > forAway:
			homeWins++
		case forHome < forAway:
			awayWins++
		default:
			draws++
		}
	}

	if sample == 0 {
		return NeutralFeatures()
	}

	n := float64(sample)
	return Features{
		HomeWinRatio:  float64(homeWins) / n,
		DrawRatio:     float64(draws) / n,
		AwayWinRatio:  float64(awayWins) / n,
		AvgTotalGoals: float64(homeGoals+awayGoals) / n,
		HomeAvgGoals:  float64(homeGoals) / n,
		AwayAvgGoals:  float64(awayGoals) / n,
		SampleCount:   sample,
	}
}
