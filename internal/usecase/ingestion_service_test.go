package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/infrastructure/repository/memory"
	competitionmock "github.com/riskibarqy/football-predictions/internal/mocks/domain/competition"
	matchmock "github.com/riskibarqy/football-predictions/internal/mocks/domain/match"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newTestIngestion(provider FootballDataProvider, competitions competition.Repository, matches match.Repository, codes ...string) *IngestionService {
	svc := NewIngestionService(provider, competitions, matches, IngestionConfig{TrackedCompetitions: codes}, logging.NewNop())
	svc.now = fixedClock(testNow)
	return svc
}

func TestIngestionService_IngestCompetitions_StoredOnlyTouches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newProviderMock(t)
	repo := competitionmock.NewRepository(t)
	repo.On("Count", mock.Anything).Return(12, nil).Once()
	repo.On("TouchIngested", mock.Anything, "2026-03-14").Return(12, nil).Once()

	svc := newTestIngestion(provider, repo, memory.NewMatchRepository(nil))
	got, err := svc.IngestCompetitions(ctx)
	if err != nil {
		t.Fatalf("ingest competitions: %v", err)
	}
	if got != 0 {
		t.Fatalf("unexpected ingested count: got=%d want=0", got)
	}
	provider.AssertNotCalled(t, "GetCompetitions", mock.Anything)
}

func TestIngestionService_IngestCompetitions_FetchesWhenEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newProviderMock(t)
	provider.On("GetCompetitions", mock.Anything).Return([]competition.Competition{
		{ID: 2021, Code: "PL", Name: "Premier League"},
		{ID: 2014, Code: "PD", Name: "Primera Division"},
	}, nil).Once()
	repo := memory.NewCompetitionRepository(nil)

	svc := newTestIngestion(provider, repo, memory.NewMatchRepository(nil))
	got, err := svc.IngestCompetitions(ctx)
	if err != nil {
		t.Fatalf("ingest competitions: %v", err)
	}
	if got != 2 {
		t.Fatalf("unexpected ingested count: got=%d want=2", got)
	}

	stored, exists, err := repo.GetByCode(ctx, "PL")
	if err != nil || !exists {
		t.Fatalf("expected stored competition: exists=%v err=%v", exists, err)
	}
	if stored.LastIngestedDate != "2026-03-14" || !stored.IngestedAt.Equal(testNow) {
		t.Fatalf("unexpected freshness stamp: %+v", stored)
	}

	again, err := svc.IngestCompetitions(ctx)
	if err != nil || again != 0 {
		t.Fatalf("expected second run to skip: got=%d err=%v", again, err)
	}
}

func TestIngestionService_IngestMatchesForCompetition_SkipsFreshData(t *testing.T) {
	t.Parallel()

	t.Run("upcoming matches stored", func(t *testing.T) {
		t.Parallel()

		provider := newProviderMock(t)
		matches := matchmock.NewRepository(t)
		matches.On("Count", mock.Anything, mock.MatchedBy(func(f match.Filter) bool {
			return len(f.Statuses) == 2 && f.KickoffFrom.Equal(testNow)
		})).Return(4, nil).Once()

		svc := newTestIngestion(provider, memory.NewCompetitionRepository(nil), matches, "PL")
		got, err := svc.IngestMatchesForCompetition(context.Background(), "pl")
		if err != nil || got != 0 {
			t.Fatalf("expected skip: got=%d err=%v", got, err)
		}
	})

	t.Run("already ingested today", func(t *testing.T) {
		t.Parallel()

		provider := newProviderMock(t)
		matches := matchmock.NewRepository(t)
		matches.On("Count", mock.Anything, mock.MatchedBy(func(f match.Filter) bool {
			return f.IngestedOn == ""
		})).Return(0, nil).Once()
		matches.On("Count", mock.Anything, mock.MatchedBy(func(f match.Filter) bool {
			return f.IngestedOn == "2026-03-14"
		})).Return(1, nil).Once()

		svc := newTestIngestion(provider, memory.NewCompetitionRepository(nil), matches, "PL")
		got, err := svc.IngestMatchesForCompetition(context.Background(), "PL")
		if err != nil || got != 0 {
			t.Fatalf("expected skip: got=%d err=%v", got, err)
		}
	})
}

func TestIngestionService_IngestMatchesForCompetition_PreservesH2H(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	past := upcomingMatch(1, "PL", testNow.Add(-48*time.Hour), 10, 20)
	past.IngestedAt = "2026-03-12"
	past.H2H = &match.H2H{LastUpdated: "2026-03-12", Aggregates: match.H2HAggregates{NumberOfMatches: 3}}
	repo := memory.NewMatchRepository([]match.Match{past})

	refreshed := upcomingMatch(1, "PL", testNow.Add(24*time.Hour), 10, 20)
	fresh := upcomingMatch(2, "", testNow.Add(48*time.Hour), 30, 40)
	provider := newProviderMock(t)
	provider.On("GetScheduledMatches", mock.Anything, "PL", 0).Return(match.Page{
		Competition: &match.CompetitionRef{ID: 2021, Code: "PL", Name: "Premier League"},
		Matches:     []match.Match{refreshed, fresh},
	}, nil).Once()

	svc := newTestIngestion(provider, memory.NewCompetitionRepository(nil), repo, "PL")
	got, err := svc.IngestMatchesForCompetition(ctx, "PL")
	if err != nil {
		t.Fatalf("ingest matches: %v", err)
	}
	if got != 2 {
		t.Fatalf("unexpected ingested count: got=%d want=2", got)
	}

	stored, _, _ := repo.Get(ctx, 1)
	if stored.H2H == nil || stored.H2H.Aggregates.NumberOfMatches != 3 {
		t.Fatalf("expected h2h cache to survive upsert, got %+v", stored.H2H)
	}
	if !stored.UTCDate.Equal(refreshed.UTCDate) || stored.IngestedAt != "2026-03-14" {
		t.Fatalf("expected overwritten fields, got %+v", stored)
	}

	second, _, _ := repo.Get(ctx, 2)
	if second.Competition.Code != "PL" || second.Competition.Name != "Premier League" {
		t.Fatalf("expected competition backfilled from page, got %+v", second.Competition)
	}

	again, err := svc.IngestMatchesForCompetition(ctx, "PL")
	if err != nil || again != 0 {
		t.Fatalf("expected idempotent second call: got=%d err=%v", again, err)
	}
}

func TestIngestionService_IngestAllTrackedMatches_ContinuesPastFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newProviderMock(t)
	provider.On("GetScheduledMatches", mock.Anything, "XX", 0).
		Return(match.Page{}, errors.New("competition not found")).Once()
	provider.On("GetScheduledMatches", mock.Anything, "PL", 0).Return(match.Page{
		Matches: []match.Match{
			upcomingMatch(1, "PL", testNow.Add(24*time.Hour), 10, 20),
			upcomingMatch(2, "PL", testNow.Add(25*time.Hour), 30, 40),
		},
	}, nil).Once()

	svc := newTestIngestion(provider, memory.NewCompetitionRepository(nil), memory.NewMatchRepository(nil), "XX", "PL")
	counts, errs := svc.IngestAllTrackedMatches(ctx)

	if counts["PL"] != 2 {
		t.Fatalf("unexpected PL count: got=%d want=2", counts["PL"])
	}
	if count, ok := counts["XX"]; !ok || count != 0 {
		t.Fatalf("expected XX recorded as zero, got=%d present=%v", count, ok)
	}
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "XX: ") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestIngestionService_IngestRecentResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewMatchRepository(nil)
	provider := newProviderMock(t)
	provider.On("GetFinishedMatches", mock.Anything, "PL", testNow.AddDate(0, 0, -30), testNow).Return(match.Page{
		Matches: []match.Match{finishedMatch(7, "PL", testNow.AddDate(0, 0, -3), 10, 20, 2, 1)},
	}, nil).Once()

	svc := NewIngestionService(provider, memory.NewCompetitionRepository(nil), repo, IngestionConfig{
		TrackedCompetitions: []string{"PL"},
		DaysBack:            30,
	}, logging.NewNop())
	svc.now = fixedClock(testNow)

	counts, errs := svc.IngestRecentResults(ctx)
	if len(errs) != 0 || counts["PL"] != 1 {
		t.Fatalf("unexpected result: counts=%v errs=%v", counts, errs)
	}

	counts, errs = svc.IngestRecentResults(ctx)
	if len(errs) != 0 || counts["PL"] != 0 {
		t.Fatalf("expected gated second call: counts=%v errs=%v", counts, errs)
	}
}

func TestIngestionService_IngestMatchesForCompetition_RequiresCode(t *testing.T) {
	t.Parallel()

	svc := newTestIngestion(newProviderMock(t), memory.NewCompetitionRepository(nil), memory.NewMatchRepository(nil))
	if _, err := svc.IngestMatchesForCompetition(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
