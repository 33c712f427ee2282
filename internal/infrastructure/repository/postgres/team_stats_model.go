package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

var teamStatsColumns = qb.Columns(teamStatsTableModel{})

type teamStatsTableModel struct {
	TeamID          int64           `db:"team_id"`
	CompetitionCode string          `db:"competition_code"`
	Form            float64         `db:"form"`
	GoalsFor        float64         `db:"goals_for"`
	GoalsAgainst    float64         `db:"goals_against"`
	GamesPlayed     int             `db:"games_played"`
	HomeForm        sql.NullFloat64 `db:"home_form"`
	AwayForm        sql.NullFloat64 `db:"away_form"`
	ComputedAt      time.Time       `db:"computed_at"`
}

func (m teamStatsTableModel) toDomain() teamstats.TeamStats {
	return teamstats.TeamStats{
		TeamID:          m.TeamID,
		CompetitionCode: m.CompetitionCode,
		Form:            m.Form,
		GoalsFor:        m.GoalsFor,
		GoalsAgainst:    m.GoalsAgainst,
		GamesPlayed:     m.GamesPlayed,
		HomeForm:        nullFloat64ToPtr(m.HomeForm),
		AwayForm:        nullFloat64ToPtr(m.AwayForm),
		ComputedAt:      m.ComputedAt.UTC(),
	}
}

func teamStatsFromDomain(item teamstats.TeamStats) teamStatsTableModel {
	computedAt := item.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}
	return teamStatsTableModel{
		TeamID:          item.TeamID,
		CompetitionCode: item.CompetitionCode,
		Form:            item.Form,
		GoalsFor:        item.GoalsFor,
		GoalsAgainst:    item.GoalsAgainst,
		GamesPlayed:     item.GamesPlayed,
		HomeForm:        float64PtrToNull(item.HomeForm),
		AwayForm:        float64PtrToNull(item.AwayForm),
		ComputedAt:      computedAt,
	}
}
