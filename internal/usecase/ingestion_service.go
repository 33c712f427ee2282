package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type IngestionConfig struct {
	TrackedCompetitions []string
	// Season pins the provider season for scheduled matches; zero means current.
	Season   int
	DaysBack int
}

// IngestionService pulls competitions and matches from the provider, skipping
// any call whose data is already fresh in storage.
type IngestionService struct {
	provider     FootballDataProvider
	competitions competition.Repository
	matches      match.Repository
	cfg          IngestionConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewIngestionService(
	provider FootballDataProvider,
	competitions competition.Repository,
	matches match.Repository,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = 90
	}
	cfg.TrackedCompetitions = normalizeCodes(cfg.TrackedCompetitions)

	return &IngestionService{
		provider:     provider,
		competitions: competitions,
		matches:      matches,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *IngestionService) TrackedCompetitions() []string {
	return append([]string(nil), s.cfg.TrackedCompetitions...)
}

// IngestCompetitions fetches the competition list once. Later calls only
// refresh the freshness stamp and return 0.
func (s *IngestionService) IngestCompetitions(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestCompetitions")
	defer span.End()

	now := s.now().UTC()
	today := dayOf(now)

	count, err := s.competitions.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count competitions: %w", err)
	}
	if count > 0 {
		if _, err := s.competitions.TouchIngested(ctx, today); err != nil {
			return 0, fmt.Errorf("touch competitions: %w", err)
		}
		s.logger.InfoContext(ctx, "competitions already stored, skipping fetch", "count", count)
		return 0, nil
	}

	items, err := s.provider.GetCompetitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch competitions: %w", err)
	}
	for idx := range items {
		items[idx].IngestedAt = now
		items[idx].LastIngestedDate = today
	}

	written, err := s.competitions.Upsert(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("upsert competitions: %w", err)
	}
	s.logger.InfoContext(ctx, "competitions ingested", "count", written)
	return written, nil
}

// IngestMatchesForCompetition fetches scheduled matches for code unless the
// competition still has upcoming matches stored or was already ingested today.
func (s *IngestionService) IngestMatchesForCompetition(ctx context.Context, code string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestMatchesForCompetition",
		attribute.String("competition.code", competition.NormalizeCode(code)))
	defer span.End()

	code = competition.NormalizeCode(code)
	if code == "" {
		return 0, fmt.Errorf("%w: competition code is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	today := dayOf(now)

	upcoming, err := s.matches.Count(ctx, match.Filter{
		CompetitionCodes: []string{code},
		Statuses:         match.UpcomingStatuses(),
		KickoffFrom:      now,
	})
	if err != nil {
		return 0, fmt.Errorf("count upcoming matches competition=%s: %w", code, err)
	}
	if upcoming > 0 {
		s.logger.DebugContext(ctx, "upcoming matches stored, skipping fetch", "competition", code, "upcoming", upcoming)
		return 0, nil
	}

	ingestedToday, err := s.matches.Count(ctx, match.Filter{
		CompetitionCodes: []string{code},
		IngestedOn:       today,
		Limit:            1,
	})
	if err != nil {
		return 0, fmt.Errorf("check ingested matches competition=%s: %w", code, err)
	}
	if ingestedToday > 0 {
		s.logger.DebugContext(ctx, "matches already ingested today, skipping fetch", "competition", code)
		return 0, nil
	}

	page, err := s.provider.GetScheduledMatches(ctx, code, s.cfg.Season)
	if err != nil {
		return 0, fmt.Errorf("fetch scheduled matches competition=%s: %w", code, err)
	}

	written, err := s.store(ctx, code, page, today)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "scheduled matches ingested", "competition", code, "count", written)
	return written, nil
}

// IngestAllTrackedMatches runs IngestMatchesForCompetition for every tracked
// code in order. A failing code is reported and counted as 0.
func (s *IngestionService) IngestAllTrackedMatches(ctx context.Context) (map[string]int, []string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestAllTrackedMatches")
	defer span.End()

	return s.eachTracked(ctx, s.IngestMatchesForCompetition)
}

// IngestRecentResults stores finished matches of the last DaysBack days so the
// form aggregator has history to work with.
func (s *IngestionService) IngestRecentResults(ctx context.Context) (map[string]int, []string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestRecentResults")
	defer span.End()

	return s.eachTracked(ctx, s.ingestResultsForCompetition)
}

func (s *IngestionService) ingestResultsForCompetition(ctx context.Context, code string) (int, error) {
	now := s.now().UTC()
	today := dayOf(now)

	done, err := s.matches.Count(ctx, match.Filter{
		CompetitionCodes: []string{code},
		Statuses:         []string{match.StatusFinished},
		IngestedOn:       today,
		Limit:            1,
	})
	if err != nil {
		return 0, fmt.Errorf("check ingested results competition=%s: %w", code, err)
	}
	if done > 0 {
		return 0, nil
	}

	from := now.AddDate(0, 0, -s.cfg.DaysBack)
	page, err := s.provider.GetFinishedMatches(ctx, code, from, now)
	if err != nil {
		return 0, fmt.Errorf("fetch finished matches competition=%s: %w", code, err)
	}

	written, err := s.store(ctx, code, page, today)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "finished matches ingested", "competition", code, "count", written)
	return written, nil
}

func (s *IngestionService) eachTracked(ctx context.Context, fn func(context.Context, string) (int, error)) (map[string]int, []string) {
	counts := make(map[string]int, len(s.cfg.TrackedCompetitions))
	var errs []string
	for _, code := range s.cfg.TrackedCompetitions {
		written, err := fn(ctx, code)
		if err != nil {
			s.logger.WarnContext(ctx, "competition ingestion failed", "competition", code, "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", code, err))
			counts[code] = 0
			continue
		}
		counts[code] = written
	}
	return counts, errs
}

func (s *IngestionService) store(ctx context.Context, code string, page match.Page, today string) (int, error) {
	if len(page.Matches) == 0 {
		return 0, nil
	}

	items := make([]match.Match, 0, len(page.Matches))
	for _, item := range page.Matches {
		if item.Competition.Code == "" {
			if page.Competition != nil {
				item.Competition = *page.Competition
			}
			item.Competition.Code = code
		}
		item.IngestedAt = today
		item.LastIngestedDate = today
		items = append(items, item)
	}

	written, err := s.matches.Upsert(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("upsert matches competition=%s: %w", code, err)
	}
	return written, nil
}
