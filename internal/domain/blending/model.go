package blending

import (
	"math"

	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
)

// Outcome holds home/draw/away probabilities.
type Outcome struct {
	Home float64
	Draw float64
	Away float64
}

func (o Outcome) Sum() float64 {
	return o.Home + o.Draw + o.Away
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// BlendOutcome shrinks the H2H result ratios toward the league base rates by
// sample confidence, then nudges toward the in-form side when both teams have
// stats. An empty sample carries no evidence, so the league rates are used as
// the ratios and the blend reduces to the league rates.
func (p Params) BlendOutcome(f Features, home, away *teamstats.TeamStats) Outcome {
	ratios := Outcome{Home: f.HomeWinRatio, Draw: f.DrawRatio, Away: f.AwayWinRatio}
	if f.SampleCount <= 0 {
		ratios = p.leagueRates()
	}

	w := p.H2HWeight(f.SampleCount)
	league := p.leagueRates()
	out := Outcome{
		Home: ratios.Home*w + league.Home*(1-w),
		Draw: ratios.Draw*w + league.Draw*(1-w),
		Away: ratios.Away*w + league.Away*(1-w),
	}

	if home != nil && away != nil {
		formDiff := home.Form - away.Form
		goalDiff := home.GoalDifference() - away.GoalDifference()
		adj := (sigmoid(formDiff*p.FormScale) - 0.5) + (sigmoid(goalDiff*p.GoalScale) - 0.5)

		out.Home += p.FormNudge * adj
		out.Away -= p.FormNudge * adj
		out.Draw *= 1 - p.DrawShrink*math.Abs(adj)
	}

	return p.normalize(out)
}

// OverProbability is P(total goals > line).
func (p Params) OverProbability(f Features, home, away *teamstats.TeamStats, line float64) float64 {
	expected := f.AvgTotalGoals
	if home != nil && away != nil {
		recent := (home.GoalsFor + home.GoalsAgainst + away.GoalsFor + away.GoalsAgainst) / 2
		expected = expected*p.GoalsH2HWeight + recent*(1-p.GoalsH2HWeight)
	}
	return sigmoid((expected - line) * p.GoalsScale)
}

// BTTSProbability uses the weaker of the two scoring potentials.
func (p Params) BTTSProbability(f Features, home, away *teamstats.TeamStats) float64 {
	homePotential := f.HomeAvgGoals
	awayPotential := f.AwayAvgGoals
	if home != nil && away != nil {
		homeRecent := (home.GoalsFor + away.GoalsAgainst) / 2
		awayRecent := (away.GoalsFor + home.GoalsAgainst) / 2
		homePotential = homePotential*p.GoalsH2HWeight + homeRecent*(1-p.GoalsH2HWeight)
		awayPotential = awayPotential*p.GoalsH2HWeight + awayRecent*(1-p.GoalsH2HWeight)
	}
	return p.bttsFromPotential(math.Min(homePotential, awayPotential))
}

func (p Params) bttsFromPotential(minPotential float64) float64 {
	return sigmoid((minPotential - p.BTTSThreshold) * p.BTTSScale)
}

// normalize clamps every value to at least Floor and rescales the rest so the
// three sum to one. Values that fall under the floor after rescaling are
// pinned and the remainder is rescaled again.
func (p Params) normalize(o Outcome) Outcome {
	vals := [3]float64{o.Home, o.Draw, o.Away}
	var pinned [3]bool

	floor := p.Floor
	if floor*3 > 1 {
		floor = 1.0 / 3
	}

	for i := range vals {
		if vals[i] < floor {
			vals[i] = floor
			pinned[i] = true
		}
	}

	for range 3 {
		budget := 1.0
		free := 0.0
		freeCount := 0
		for i, v := range vals {
			if pinned[i] {
				budget -= v
				continue
			}
			free += v
			freeCount++
		}
		if freeCount == 0 {
			break
		}

		changed := false
		for i := range vals {
			if pinned[i] {
				continue
			}
			if free <= 0 {
				vals[i] = budget / float64(freeCount)
			} else {
				vals[i] = vals[i] * budget / free
			}
		}
		for i := range vals {
			if !pinned[i] && vals[i] < floor {
				vals[i] = floor
				pinned[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return Outcome{Home: vals[0], Draw: vals[1], Away: vals[2]}
}
