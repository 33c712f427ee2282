package postgres

import (
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	qb "github.com/riskibarqy/football-predictions/internal/platform/querybuilder"
)

var predictionColumns = qb.Columns(predictionTableModel{})

type predictionTableModel struct {
	Payload   jsonColumn[prediction.Prediction] `db:"payload"`
	CreatedAt time.Time                         `db:"created_at"`
}

// predictionInsertModel keeps the full prediction in payload and copies the
// columns used for filtering and ordering.
type predictionInsertModel struct {
	MatchID            int64                             `db:"match_id"`
	CreatedAt          string                            `db:"created_at"`
	CompetitionCode    string                            `db:"competition_code"`
	UTCDate            time.Time                         `db:"utc_date"`
	HomeWinProbability float64                           `db:"home_win_probability"`
	Payload            jsonColumn[prediction.Prediction] `db:"payload"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	out := m.Payload.V
	out.CreatedAt = m.CreatedAt.UTC().Format(dayLayout)
	return out
}

func predictionInsertFromDomain(day string, item prediction.Prediction) predictionInsertModel {
	item.CreatedAt = day
	return predictionInsertModel{
		MatchID:            item.MatchID,
		CreatedAt:          day,
		CompetitionCode:    item.CompetitionCode,
		UTCDate:            item.UTCDate.UTC(),
		HomeWinProbability: item.HomeWinProbability,
		Payload:            jsonColumn[prediction.Prediction]{V: item},
	}
}
