package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

type providerMock struct {
	mock.Mock
}

func (m *providerMock) GetCompetitions(ctx context.Context) ([]competition.Competition, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]competition.Competition)
	return items, args.Error(1)
}

func (m *providerMock) GetScheduledMatches(ctx context.Context, code string, season int) (match.Page, error) {
	args := m.Called(ctx, code, season)
	page, _ := args.Get(0).(match.Page)
	return page, args.Error(1)
}

func (m *providerMock) GetFinishedMatches(ctx context.Context, code string, from, to time.Time) (match.Page, error) {
	args := m.Called(ctx, code, from, to)
	page, _ := args.Get(0).(match.Page)
	return page, args.Error(1)
}

func (m *providerMock) GetHeadToHead(ctx context.Context, matchID int64, limit int) (match.H2H, error) {
	args := m.Called(ctx, matchID, limit)
	h2h, _ := args.Get(0).(match.H2H)
	return h2h, args.Error(1)
}

func (m *providerMock) GetTeamMatches(ctx context.Context, teamID int64, limit int, status string) (match.Page, error) {
	args := m.Called(ctx, teamID, limit, status)
	page, _ := args.Get(0).(match.Page)
	return page, args.Error(1)
}

func newProviderMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *providerMock {
	m := &providerMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func intPtr(v int) *int {
	return &v
}

func upcomingMatch(id int64, code string, kickoff time.Time, homeID, awayID int64) match.Match {
	return match.Match{
		ID:          id,
		UTCDate:     kickoff,
		Status:      match.StatusTimed,
		Competition: match.CompetitionRef{ID: 2021, Code: code, Name: code + " League"},
		HomeTeam:    match.TeamRef{ID: homeID, Name: "Home " + code},
		AwayTeam:    match.TeamRef{ID: awayID, Name: "Away " + code},
	}
}

func finishedMatch(id int64, code string, kickoff time.Time, homeID, awayID int64, homeGoals, awayGoals int) match.Match {
	item := upcomingMatch(id, code, kickoff, homeID, awayID)
	item.Status = match.StatusFinished
	item.Score.FullTime = match.Goals{Home: intPtr(homeGoals), Away: intPtr(awayGoals)}
	return item
}
