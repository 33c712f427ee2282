package footballdata

type areaDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

type seasonDTO struct {
	ID              int64  `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday"`
}

type competitionDTO struct {
	ID                       int64      `json:"id"`
	Area                     areaDTO    `json:"area"`
	Name                     string     `json:"name"`
	Code                     string     `json:"code"`
	Type                     string     `json:"type"`
	Emblem                   string     `json:"emblem"`
	Plan                     string     `json:"plan"`
	CurrentSeason            *seasonDTO `json:"currentSeason"`
	NumberOfAvailableSeasons int        `json:"numberOfAvailableSeasons"`
	LastUpdated              string     `json:"lastUpdated"`
}

type competitionsEnvelope struct {
	Count        int              `json:"count"`
	Competitions []competitionDTO `json:"competitions"`
}

type competitionRefDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Emblem string `json:"emblem"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

type goalsDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type scoreDTO struct {
	Winner   *string  `json:"winner"`
	Duration string   `json:"duration"`
	FullTime goalsDTO `json:"fullTime"`
	HalfTime goalsDTO `json:"halfTime"`
}

type refereeDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nationality string `json:"nationality"`
}

type matchDTO struct {
	Area        *areaDTO          `json:"area"`
	Competition competitionRefDTO `json:"competition"`
	Season      *seasonDTO        `json:"season"`
	ID          int64             `json:"id"`
	UTCDate     string            `json:"utcDate"`
	Status      string            `json:"status"`
	Matchday    *int              `json:"matchday"`
	Stage       string            `json:"stage"`
	Group       *string           `json:"group"`
	LastUpdated string            `json:"lastUpdated"`
	HomeTeam    teamDTO           `json:"homeTeam"`
	AwayTeam    teamDTO           `json:"awayTeam"`
	Score       scoreDTO          `json:"score"`
	Referees    []refereeDTO      `json:"referees"`
}

type resultSetDTO struct {
	Count  int    `json:"count"`
	First  string `json:"first"`
	Last   string `json:"last"`
	Played int    `json:"played"`
}

type matchesEnvelope struct {
	ResultSet   resultSetDTO       `json:"resultSet"`
	Competition *competitionRefDTO `json:"competition"`
	Matches     []matchDTO         `json:"matches"`
}

type h2hTeamDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

type aggregatesDTO struct {
	NumberOfMatches int        `json:"numberOfMatches"`
	TotalGoals      int        `json:"totalGoals"`
	HomeTeam        h2hTeamDTO `json:"homeTeam"`
	AwayTeam        h2hTeamDTO `json:"awayTeam"`
}

type headToHeadEnvelope struct {
	ResultSet  resultSetDTO  `json:"resultSet"`
	Aggregates aggregatesDTO `json:"aggregates"`
	Matches    []matchDTO    `json:"matches"`
}
