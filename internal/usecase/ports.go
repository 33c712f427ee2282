package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
)

// FootballDataProvider is the outbound contract of the match data provider.
type FootballDataProvider interface {
	GetCompetitions(ctx context.Context) ([]competition.Competition, error)
	GetScheduledMatches(ctx context.Context, code string, season int) (match.Page, error)
	GetFinishedMatches(ctx context.Context, code string, from, to time.Time) (match.Page, error)
	GetHeadToHead(ctx context.Context, matchID int64, limit int) (match.H2H, error)
}

// TeamHistoryProvider lists a single team's matches across competitions.
type TeamHistoryProvider interface {
	GetTeamMatches(ctx context.Context, teamID int64, limit int, status string) (match.Page, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}
