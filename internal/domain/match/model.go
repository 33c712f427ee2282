package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusSuspended = "SUSPENDED"
	StatusCancelled = "CANCELLED"
)

// UpcomingStatuses are the statuses of matches that have not kicked off yet.
func UpcomingStatuses() []string {
	return []string{StatusScheduled, StatusTimed}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsUpcomingStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusTimed:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}

type TeamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	TLA       string `json:"tla,omitempty"`
	Crest     string `json:"crest,omitempty"`
}

type CompetitionRef struct {
	ID     int64  `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Emblem string `json:"emblem,omitempty"`
}

type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Winner   string `json:"winner,omitempty"`
	Duration string `json:"duration,omitempty"`
	FullTime Goals  `json:"full_time"`
	HalfTime Goals  `json:"half_time"`
}

type Referee struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Match is a provider match keyed by its numeric id. H2H is only ever written
// through Repository.SetH2H; a regular upsert keeps whatever is stored.
type Match struct {
	ID               int64               `json:"id"`
	UTCDate          time.Time           `json:"utc_date"`
	Status           string              `json:"status"`
	Matchday         *int                `json:"matchday,omitempty"`
	Stage            string              `json:"stage,omitempty"`
	Group            string              `json:"group,omitempty"`
	LastUpdated      *time.Time          `json:"last_updated,omitempty"`
	Competition      CompetitionRef      `json:"competition"`
	Season           *competition.Season `json:"season,omitempty"`
	Area             *competition.Area   `json:"area,omitempty"`
	HomeTeam         TeamRef             `json:"home_team"`
	AwayTeam         TeamRef             `json:"away_team"`
	Score            Score               `json:"score"`
	Referees         []Referee           `json:"referees,omitempty"`
	H2H              *H2H                `json:"h2h,omitempty"`
	IngestedAt       string              `json:"ingested_at,omitempty"`
	LastIngestedDate string              `json:"last_ingested_date,omitempty"`
}

// FullTimeGoals returns the final score when both sides are known.
func (m Match) FullTimeGoals() (home, away int, ok bool) {
	if m.Score.FullTime.Home == nil || m.Score.FullTime.Away == nil {
		return 0, 0, false
	}
	return *m.Score.FullTime.Home, *m.Score.FullTime.Away, true
}

func (m Match) Involves(teamID int64) bool {
	return m.HomeTeam.ID == teamID || m.AwayTeam.ID == teamID
}

func (m Match) Label() string {
	return m.HomeTeam.Name + " vs " + m.AwayTeam.Name
}

// Summary describes the stored match rows.
type Summary struct {
	Count     int
	WithH2H   int
	Oldest    string
	Newest    string
	Finished  int
	Scheduled int
}
