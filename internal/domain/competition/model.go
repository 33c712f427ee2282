package competition

import (
	"strings"
	"time"
)

type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
	Flag string `json:"flag,omitempty"`
}

type Season struct {
	ID              int64  `json:"id"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	CurrentMatchday *int   `json:"current_matchday,omitempty"`
}

// Competition is a provider competition keyed by its short code ("PL", "BL1").
type Competition struct {
	ID                       int64
	Code                     string
	Name                     string
	Type                     string
	Emblem                   string
	Plan                     string
	Area                     Area
	CurrentSeason            *Season
	NumberOfAvailableSeasons int
	LastUpdated              *time.Time
	IngestedAt               time.Time
	LastIngestedDate         string
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Summary describes the stored competition rows.
type Summary struct {
	Count  int
	Oldest string
	Newest string
}
