package footballdata

import (
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
)

func mapCompetitions(items []competitionDTO) []competition.Competition {
	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		code := competition.NormalizeCode(item.Code)
		if code == "" {
			continue
		}
		out = append(out, competition.Competition{
			ID:                       item.ID,
			Code:                     code,
			Name:                     strings.TrimSpace(item.Name),
			Type:                     item.Type,
			Emblem:                   item.Emblem,
			Plan:                     item.Plan,
			Area:                     mapArea(item.Area),
			CurrentSeason:            mapSeason(item.CurrentSeason),
			NumberOfAvailableSeasons: item.NumberOfAvailableSeasons,
			LastUpdated:              parseProviderTime(item.LastUpdated),
		})
	}
	return out
}

func mapArea(item areaDTO) competition.Area {
	return competition.Area{ID: item.ID, Name: item.Name, Code: item.Code, Flag: item.Flag}
}

func mapSeason(item *seasonDTO) *competition.Season {
	if item == nil {
		return nil
	}
	return &competition.Season{
		ID:              item.ID,
		StartDate:       item.StartDate,
		EndDate:         item.EndDate,
		CurrentMatchday: item.CurrentMatchday,
	}
}

func mapCompetitionRef(item *competitionRefDTO) *match.CompetitionRef {
	if item == nil || item.Code == "" {
		return nil
	}
	ref := match.CompetitionRef{
		ID:     item.ID,
		Code:   competition.NormalizeCode(item.Code),
		Name:   item.Name,
		Emblem: item.Emblem,
	}
	return &ref
}

// mapMatches drops rows without an id or a parseable kickoff.
func mapMatches(items []matchDTO, fallback *match.CompetitionRef) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		m, ok := mapMatch(item, fallback)
		if !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

func mapMatch(item matchDTO, fallback *match.CompetitionRef) (match.Match, bool) {
	if item.ID <= 0 {
		return match.Match{}, false
	}
	kickoff := parseProviderTime(item.UTCDate)
	if kickoff == nil {
		return match.Match{}, false
	}

	ref := mapCompetitionRef(&item.Competition)
	if ref == nil {
		ref = fallback
	}

	out := match.Match{
		ID:          item.ID,
		UTCDate:     *kickoff,
		Status:      match.NormalizeStatus(item.Status),
		Matchday:    item.Matchday,
		Stage:       item.Stage,
		LastUpdated: parseProviderTime(item.LastUpdated),
		Season:      mapSeason(item.Season),
		HomeTeam:    mapTeam(item.HomeTeam),
		AwayTeam:    mapTeam(item.AwayTeam),
		Score: match.Score{
			Duration: item.Score.Duration,
			FullTime: match.Goals{Home: item.Score.FullTime.Home, Away: item.Score.FullTime.Away},
			HalfTime: match.Goals{Home: item.Score.HalfTime.Home, Away: item.Score.HalfTime.Away},
		},
	}
	if ref != nil {
		out.Competition = *ref
	}
	if item.Group != nil {
		out.Group = *item.Group
	}
	if item.Score.Winner != nil {
		out.Score.Winner = *item.Score.Winner
	}
	if item.Area != nil {
		area := mapArea(*item.Area)
		out.Area = &area
	}
	for _, referee := range item.Referees {
		out.Referees = append(out.Referees, match.Referee{
			ID:          referee.ID,
			Name:        referee.Name,
			Type:        referee.Type,
			Nationality: referee.Nationality,
		})
	}
	return out, true
}

func mapTeam(item teamDTO) match.TeamRef {
	return match.TeamRef{
		ID:        item.ID,
		Name:      strings.TrimSpace(item.Name),
		ShortName: item.ShortName,
		TLA:       item.TLA,
		Crest:     item.Crest,
	}
}

func mapResultSet(item resultSetDTO) match.ResultSet {
	return match.ResultSet{Count: item.Count, First: item.First, Last: item.Last, Played: item.Played}
}

func mapHeadToHead(item headToHeadEnvelope) match.H2H {
	return match.H2H{
		Aggregates: match.H2HAggregates{
			NumberOfMatches: item.Aggregates.NumberOfMatches,
			TotalGoals:      item.Aggregates.TotalGoals,
			HomeTeam:        mapH2HTeam(item.Aggregates.HomeTeam),
			AwayTeam:        mapH2HTeam(item.Aggregates.AwayTeam),
		},
		Matches:   mapMatches(item.Matches, nil),
		ResultSet: mapResultSet(item.ResultSet),
	}
}

func mapH2HTeam(item h2hTeamDTO) match.H2HTeamAggregate {
	return match.H2HTeamAggregate{
		ID:     item.ID,
		Name:   item.Name,
		Wins:   item.Wins,
		Draws:  item.Draws,
		Losses: item.Losses,
	}
}

func parseProviderTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			value := parsed.UTC()
			return &value
		}
	}
	return nil
}
