package blending

import (
	"math"

	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
)

// StatsOnlyOutcome is the fallback when a fixture has no H2H cache. Each side
// gets a logistic strength score with a home-advantage offset; the draw share
// grows as the two scores converge.
func (p Params) StatsOnlyOutcome(home, away *teamstats.TeamStats) Outcome {
	h, a := p.orNeutral(home), p.orNeutral(away)

	homeRaw := sigmoid(p.strength(h, a, p.HomeAdvantage))
	awayRaw := sigmoid(p.strength(a, h, -p.HomeAdvantage))
	drawRaw := (1 - math.Abs(homeRaw-awayRaw)) * p.LegacyDrawScale

	total := homeRaw + drawRaw + awayRaw
	return p.normalize(Outcome{
		Home: homeRaw / total,
		Draw: drawRaw / total,
		Away: awayRaw / total,
	})
}

func (p Params) StatsOnlyOver(home, away *teamstats.TeamStats, line float64) float64 {
	h, a := p.orNeutral(home), p.orNeutral(away)
	expected := (h.GoalsFor+a.GoalsAgainst)/2 + (a.GoalsFor+h.GoalsAgainst)/2
	return sigmoid((expected - line) * p.GoalsScale)
}

func (p Params) StatsOnlyBTTS(home, away *teamstats.TeamStats) float64 {
	h, a := p.orNeutral(home), p.orNeutral(away)
	homePotential := (h.GoalsFor + a.GoalsAgainst) / 2
	awayPotential := (a.GoalsFor + h.GoalsAgainst) / 2
	return p.bttsFromPotential(math.Min(homePotential, awayPotential))
}

func (p Params) strength(side, opponent teamstats.TeamStats, advantage float64) float64 {
	return advantage +
		(side.Form-opponent.Form)*p.LegacyFormWeight +
		(side.GoalDifference()-opponent.GoalDifference())*p.LegacyGoalWeight
}

func (p Params) orNeutral(stats *teamstats.TeamStats) teamstats.TeamStats {
	if stats != nil {
		return *stats
	}
	return teamstats.TeamStats{
		Form:         p.NeutralForm,
		GoalsFor:     p.NeutralGoals,
		GoalsAgainst: p.NeutralGoals,
	}
}
