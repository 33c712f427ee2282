package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/infrastructure/repository/memory"
	teamstatsmock "github.com/riskibarqy/football-predictions/internal/mocks/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func formHistory() []match.Match {
	day := 24 * time.Hour
	unscored := upcomingMatch(5, "PL", testNow.Add(-4*day), 1, 9)
	unscored.Status = match.StatusFinished

	return []match.Match{
		finishedMatch(1, "PL", testNow.Add(-1*day), 1, 2, 2, 0),
		finishedMatch(2, "PL", testNow.Add(-2*day), 3, 1, 1, 1),
		finishedMatch(3, "PL", testNow.Add(-3*day), 1, 4, 0, 1),
		unscored,
		finishedMatch(4, "PL", testNow.Add(-200*day), 1, 2, 5, 0),
		upcomingMatch(6, "PL", testNow.Add(day), 1, 2),
	}
}

func newTestTeamStats(matches match.Repository, decay float64) *TeamStatsService {
	svc := NewTeamStatsService(matches, memory.NewTeamStatsRepository(), TeamStatsConfig{Decay: decay, Workers: 2}, logging.NewNop())
	svc.now = fixedClock(testNow)
	return svc
}

func TestTeamStatsService_ComputeTeamStats(t *testing.T) {
	t.Parallel()

	svc := newTestTeamStats(memory.NewMatchRepository(formHistory()), 0)
	got, err := svc.ComputeTeamStats(context.Background(), 1, "", 90, 15)
	if err != nil {
		t.Fatalf("compute team stats: %v", err)
	}
	if got == nil {
		t.Fatalf("expected stats, got nil")
	}
	if got.GamesPlayed != 3 {
		t.Fatalf("unexpected games played: got=%d want=3", got.GamesPlayed)
	}
	if got.Form != 1.33 || got.GoalsFor != 1 || got.GoalsAgainst != 0.67 {
		t.Fatalf("unexpected averages: form=%v gf=%v ga=%v", got.Form, got.GoalsFor, got.GoalsAgainst)
	}
	if got.HomeForm != nil || got.AwayForm != nil {
		t.Fatalf("home/away form must stay empty without decay")
	}
	if !got.ComputedAt.Equal(testNow) {
		t.Fatalf("unexpected computed_at: %v", got.ComputedAt)
	}
}

func TestTeamStatsService_ComputeTeamStats_CapsMostRecent(t *testing.T) {
	t.Parallel()

	svc := newTestTeamStats(memory.NewMatchRepository(formHistory()), 0)
	got, err := svc.ComputeTeamStats(context.Background(), 1, "PL", 90, 1)
	if err != nil || got == nil {
		t.Fatalf("compute team stats: got=%v err=%v", got, err)
	}
	if got.GamesPlayed != 1 || got.Form != 3 || got.GoalsFor != 2 {
		t.Fatalf("expected only the latest win, got %+v", got)
	}
	if got.CompetitionCode != "PL" {
		t.Fatalf("unexpected competition scope: %q", got.CompetitionCode)
	}
}

func TestTeamStatsService_ComputeTeamStats_Decay(t *testing.T) {
	t.Parallel()

	svc := newTestTeamStats(memory.NewMatchRepository(formHistory()), 0.5)
	got, err := svc.ComputeTeamStats(context.Background(), 1, "", 90, 15)
	if err != nil || got == nil {
		t.Fatalf("compute team stats: got=%v err=%v", got, err)
	}

	// weights 1, 0.5, 0.25 from the newest match
	if got.Form != 2 || got.GoalsFor != 1.43 || got.GoalsAgainst != 0.43 {
		t.Fatalf("unexpected weighted averages: %+v", got)
	}
	if got.HomeForm == nil || *got.HomeForm != 2.4 {
		t.Fatalf("unexpected home form: %v", got.HomeForm)
	}
	if got.AwayForm == nil || *got.AwayForm != 1 {
		t.Fatalf("unexpected away form: %v", got.AwayForm)
	}
}

func TestTeamStatsService_ComputeTeamStats_NoHistory(t *testing.T) {
	t.Parallel()

	svc := newTestTeamStats(memory.NewMatchRepository(formHistory()), 0)
	got, err := svc.ComputeTeamStats(context.Background(), 77, "", 90, 15)
	if err != nil || got != nil {
		t.Fatalf("expected nil stats without error, got=%v err=%v", got, err)
	}

	if _, err := svc.ComputeTeamStats(context.Background(), 0, "", 90, 15); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTeamStatsService_UpdateAllTeams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewTeamStatsRepository()
	svc := NewTeamStatsService(memory.NewMatchRepository(formHistory()), repo, TeamStatsConfig{
		TrackedCompetitions: []string{"PL"},
		Workers:             2,
	}, logging.NewNop())
	svc.now = fixedClock(testNow)

	updated, errs := svc.UpdateAllTeams(ctx, nil, 0, 0)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// teams 1, 2, 3, 4 have scored matches; team 9 only has an unscored one
	if updated != 4 {
		t.Fatalf("unexpected updated count: got=%d want=4", updated)
	}

	stored, err := repo.GetByTeamIDs(ctx, []int64{1, 9})
	if err != nil {
		t.Fatalf("get team stats: %v", err)
	}
	if _, ok := stored[9]; ok {
		t.Fatalf("team without scored matches must not be stored")
	}
	if stored[1].CompetitionCode != "PL" || stored[1].GamesPlayed != 3 {
		t.Fatalf("unexpected stored stats: %+v", stored[1])
	}
}

func TestTeamStatsService_UpdateAllTeams_RecordsUpsertFailures(t *testing.T) {
	t.Parallel()

	history := []match.Match{finishedMatch(1, "PL", testNow.Add(-time.Hour), 1, 2, 1, 0)}
	repo := teamstatsmock.NewRepository(t)
	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(nil).Once()
	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	svc := NewTeamStatsService(memory.NewMatchRepository(history), repo, TeamStatsConfig{Workers: 1}, logging.NewNop())
	svc.now = fixedClock(testNow)

	updated, errs := svc.UpdateAllTeams(context.Background(), []string{"PL"}, 0, 0)
	if updated != 1 || len(errs) != 1 {
		t.Fatalf("expected one success and one failure, got updated=%d errs=%v", updated, errs)
	}
}

func TestTeamStatsService_ComputeTeamStats_BackfillsFromProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := memory.NewMatchRepository(nil)
	provider := newProviderMock(t)
	provider.On("GetTeamMatches", mock.Anything, int64(77), 15, match.StatusFinished).Return(match.Page{
		Matches: []match.Match{
			finishedMatch(500, "PL", testNow.Add(-48*time.Hour), 77, 3, 2, 0),
			finishedMatch(501, "FAC", testNow.Add(-96*time.Hour), 4, 77, 1, 1),
		},
	}, nil).Once()

	svc := newTestTeamStats(matches, 0).WithTeamHistory(provider)
	got, err := svc.ComputeTeamStats(ctx, 77, "", 90, 15)
	if err != nil || got == nil {
		t.Fatalf("compute team stats: got=%v err=%v", got, err)
	}
	if got.GamesPlayed != 2 || got.Form != 2 {
		t.Fatalf("unexpected backfilled stats: %+v", got)
	}
	if count, _ := matches.Count(ctx, match.Filter{TeamID: 77}); count != 2 {
		t.Fatalf("unexpected stored history: got=%d want=2", count)
	}

	// stored history is reused without another provider call
	if _, err := svc.ComputeTeamStats(ctx, 77, "", 90, 15); err != nil {
		t.Fatalf("recompute team stats: %v", err)
	}
}

func TestTeamStatsService_ComputeTeamStats_BackfillFailure(t *testing.T) {
	t.Parallel()

	upstream := errors.New("provider down")
	provider := newProviderMock(t)
	provider.On("GetTeamMatches", mock.Anything, int64(77), 0, match.StatusFinished).Return(match.Page{}, upstream).Once()

	svc := newTestTeamStats(memory.NewMatchRepository(nil), 0).WithTeamHistory(provider)
	if _, err := svc.ComputeTeamStats(context.Background(), 77, "PL", 90, 15); !errors.Is(err, upstream) {
		t.Fatalf("unexpected error: got=%v want=%v", err, upstream)
	}
}

func TestTeamStatsService_UpdateAllTeams_IncludesUpcomingTeams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := []match.Match{
		finishedMatch(1, "PL", testNow.Add(-24*time.Hour), 1, 2, 1, 0),
		upcomingMatch(2, "PL", testNow.Add(24*time.Hour), 5, 6),
	}
	provider := newProviderMock(t)
	provider.On("GetTeamMatches", mock.Anything, int64(5), 15, match.StatusFinished).Return(match.Page{
		Matches: []match.Match{finishedMatch(700, "ELC", testNow.Add(-72*time.Hour), 5, 99, 3, 1)},
	}, nil).Once()
	provider.On("GetTeamMatches", mock.Anything, int64(6), 15, match.StatusFinished).Return(match.Page{}, nil).Once()

	repo := memory.NewTeamStatsRepository()
	svc := NewTeamStatsService(memory.NewMatchRepository(history), repo, TeamStatsConfig{
		TrackedCompetitions: []string{"PL"},
		Workers:             1,
	}, logging.NewNop()).WithTeamHistory(provider)
	svc.now = fixedClock(testNow)

	updated, errs := svc.UpdateAllTeams(ctx, nil, 0, 0)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if updated != 3 {
		t.Fatalf("unexpected updated count: got=%d want=3", updated)
	}

	stored, err := repo.GetByTeamIDs(ctx, []int64{5, 6})
	if err != nil {
		t.Fatalf("get team stats: %v", err)
	}
	if stored[5].CompetitionCode != "PL" || stored[5].Form != 3 {
		t.Fatalf("unexpected stats for upcoming team: %+v", stored[5])
	}
	if _, ok := stored[6]; ok {
		t.Fatalf("team without any history must not be stored")
	}
}
