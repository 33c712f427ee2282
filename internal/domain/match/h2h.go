package match

type H2HTeamAggregate struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

type H2HAggregates struct {
	NumberOfMatches int              `json:"number_of_matches"`
	TotalGoals      int              `json:"total_goals"`
	HomeTeam        H2HTeamAggregate `json:"home_team"`
	AwayTeam        H2HTeamAggregate `json:"away_team"`
}

type ResultSet struct {
	Count  int    `json:"count"`
	First  string `json:"first,omitempty"`
	Last   string `json:"last,omitempty"`
	Played int    `json:"played"`
}

// H2H is the cached head-to-head history embedded in a match.
type H2H struct {
	LastUpdated string        `json:"last_updated"`
	Aggregates  H2HAggregates `json:"aggregates"`
	Matches     []Match       `json:"matches"`
	ResultSet   ResultSet     `json:"result_set"`
}

func (h *H2H) UpdatedOn(day string) bool {
	return h != nil && h.LastUpdated == day
}

// FinishedMatches returns the prior meetings that have a final score.
func (h *H2H) FinishedMatches() []Match {
	if h == nil {
		return nil
	}
	out := make([]Match, 0, len(h.Matches))
	for _, item := range h.Matches {
		if !IsFinishedStatus(item.Status) {
			continue
		}
		if _, _, ok := item.FullTimeGoals(); !ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Page is one provider listing of matches for a competition, team or filter.
type Page struct {
	Competition *CompetitionRef
	Matches     []Match
	ResultSet   ResultSet
}
