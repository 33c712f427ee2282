package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

var matchColumns = qb.Columns(matchTableModel{})

type matchTableModel struct {
	ID                int64                           `db:"id"`
	UTCDate           time.Time                       `db:"utc_date"`
	Status            string                          `db:"status"`
	Matchday          sql.NullInt32                   `db:"matchday"`
	Stage             string                          `db:"stage"`
	GroupName         string                          `db:"group_name"`
	LastUpdated       sql.NullTime                    `db:"last_updated"`
	CompetitionID     int64                           `db:"competition_id"`
	CompetitionCode   string                          `db:"competition_code"`
	CompetitionName   string                          `db:"competition_name"`
	CompetitionEmblem string                          `db:"competition_emblem"`
	Season            jsonColumn[*competition.Season] `db:"season"`
	Area              jsonColumn[*competition.Area]   `db:"area"`
	HomeTeamID        int64                           `db:"home_team_id"`
	HomeTeam          jsonColumn[match.TeamRef]       `db:"home_team"`
	AwayTeamID        int64                           `db:"away_team_id"`
	AwayTeam          jsonColumn[match.TeamRef]       `db:"away_team"`
	Score             jsonColumn[match.Score]         `db:"score"`
	Referees          jsonColumn[[]match.Referee]     `db:"referees"`
	H2H               jsonColumn[*match.H2H]          `db:"h2h"`
	IngestedAt        sql.NullTime                    `db:"ingested_at"`
	LastIngestedDate  sql.NullTime                    `db:"last_ingested_date"`
}

// matchInsertModel leaves out h2h so an upsert never touches the cache.
type matchInsertModel struct {
	ID                int64                           `db:"id"`
	UTCDate           time.Time                       `db:"utc_date"`
	Status            string                          `db:"status"`
	Matchday          sql.NullInt32                   `db:"matchday"`
	Stage             string                          `db:"stage"`
	GroupName         string                          `db:"group_name"`
	LastUpdated       sql.NullTime                    `db:"last_updated"`
	CompetitionID     int64                           `db:"competition_id"`
	CompetitionCode   string                          `db:"competition_code"`
	CompetitionName   string                          `db:"competition_name"`
	CompetitionEmblem string                          `db:"competition_emblem"`
	Season            jsonColumn[*competition.Season] `db:"season"`
	Area              jsonColumn[*competition.Area]   `db:"area"`
	HomeTeamID        int64                           `db:"home_team_id"`
	HomeTeam          jsonColumn[match.TeamRef]       `db:"home_team"`
	AwayTeamID        int64                           `db:"away_team_id"`
	AwayTeam          jsonColumn[match.TeamRef]       `db:"away_team"`
	Score             jsonColumn[match.Score]         `db:"score"`
	Referees          jsonColumn[[]match.Referee]     `db:"referees"`
	IngestedAt        sql.NullString                  `db:"ingested_at"`
	LastIngestedDate  sql.NullString                  `db:"last_ingested_date"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:          m.ID,
		UTCDate:     m.UTCDate.UTC(),
		Status:      m.Status,
		Matchday:    nullInt32ToIntPtr(m.Matchday),
		Stage:       m.Stage,
		Group:       m.GroupName,
		LastUpdated: nullTimeToTimePtr(m.LastUpdated),
		Competition: match.CompetitionRef{
			ID:     m.CompetitionID,
			Code:   m.CompetitionCode,
			Name:   m.CompetitionName,
			Emblem: m.CompetitionEmblem,
		},
		Season:           m.Season.V,
		Area:             m.Area.V,
		HomeTeam:         m.HomeTeam.V,
		AwayTeam:         m.AwayTeam.V,
		Score:            m.Score.V,
		Referees:         m.Referees.V,
		H2H:              m.H2H.V,
		IngestedAt:       dayFromNullTime(m.IngestedAt),
		LastIngestedDate: dayFromNullTime(m.LastIngestedDate),
	}
}

func matchInsertFromDomain(item match.Match) matchInsertModel {
	referees := item.Referees
	if referees == nil {
		referees = []match.Referee{}
	}
	return matchInsertModel{
		ID:                item.ID,
		UTCDate:           item.UTCDate.UTC(),
		Status:            match.NormalizeStatus(item.Status),
		Matchday:          intPtrToNullInt32(item.Matchday),
		Stage:             item.Stage,
		GroupName:         item.Group,
		LastUpdated:       timePtrToNullTime(item.LastUpdated),
		CompetitionID:     item.Competition.ID,
		CompetitionCode:   competition.NormalizeCode(item.Competition.Code),
		CompetitionName:   item.Competition.Name,
		CompetitionEmblem: item.Competition.Emblem,
		Season:            jsonColumn[*competition.Season]{V: item.Season},
		Area:              jsonColumn[*competition.Area]{V: item.Area},
		HomeTeamID:        item.HomeTeam.ID,
		HomeTeam:          jsonColumn[match.TeamRef]{V: item.HomeTeam},
		AwayTeamID:        item.AwayTeam.ID,
		AwayTeam:          jsonColumn[match.TeamRef]{V: item.AwayTeam},
		Score:             jsonColumn[match.Score]{V: item.Score},
		Referees:          jsonColumn[[]match.Referee]{V: referees},
		IngestedAt:        nullableDay(item.IngestedAt),
		LastIngestedDate:  nullableDay(item.LastIngestedDate),
	}
}
