package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

var competitionColumns = qb.Columns(competitionTableModel{})

type competitionTableModel struct {
	ID                       int64                           `db:"id"`
	Code                     string                          `db:"code"`
	Name                     string                          `db:"name"`
	Type                     string                          `db:"type"`
	Emblem                   string                          `db:"emblem"`
	Plan                     string                          `db:"plan"`
	Area                     jsonColumn[competition.Area]    `db:"area"`
	CurrentSeason            jsonColumn[*competition.Season] `db:"current_season"`
	NumberOfAvailableSeasons int                             `db:"number_of_available_seasons"`
	LastUpdated              sql.NullTime                    `db:"last_updated"`
	IngestedAt               time.Time                       `db:"ingested_at"`
	LastIngestedDate         sql.NullTime                    `db:"last_ingested_date"`
}

type competitionInsertModel struct {
	ID                       int64                           `db:"id"`
	Code                     string                          `db:"code"`
	Name                     string                          `db:"name"`
	Type                     string                          `db:"type"`
	Emblem                   string                          `db:"emblem"`
	Plan                     string                          `db:"plan"`
	Area                     jsonColumn[competition.Area]    `db:"area"`
	CurrentSeason            jsonColumn[*competition.Season] `db:"current_season"`
	NumberOfAvailableSeasons int                             `db:"number_of_available_seasons"`
	LastUpdated              sql.NullTime                    `db:"last_updated"`
	IngestedAt               time.Time                       `db:"ingested_at"`
	LastIngestedDate         sql.NullString                  `db:"last_ingested_date"`
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:                       m.ID,
		Code:                     m.Code,
		Name:                     m.Name,
		Type:                     m.Type,
		Emblem:                   m.Emblem,
		Plan:                     m.Plan,
		Area:                     m.Area.V,
		CurrentSeason:            m.CurrentSeason.V,
		NumberOfAvailableSeasons: m.NumberOfAvailableSeasons,
		LastUpdated:              nullTimeToTimePtr(m.LastUpdated),
		IngestedAt:               m.IngestedAt.UTC(),
		LastIngestedDate:         dayFromNullTime(m.LastIngestedDate),
	}
}

func competitionInsertFromDomain(item competition.Competition) competitionInsertModel {
	ingestedAt := item.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}
	return competitionInsertModel{
		ID:                       item.ID,
		Code:                     competition.NormalizeCode(item.Code),
		Name:                     item.Name,
		Type:                     item.Type,
		Emblem:                   item.Emblem,
		Plan:                     item.Plan,
		Area:                     jsonColumn[competition.Area]{V: item.Area},
		CurrentSeason:            jsonColumn[*competition.Season]{V: item.CurrentSeason},
		NumberOfAvailableSeasons: item.NumberOfAvailableSeasons,
		LastUpdated:              timePtrToNullTime(item.LastUpdated),
		IngestedAt:               ingestedAt,
		LastIngestedDate:         nullableDay(item.LastIngestedDate),
	}
}
