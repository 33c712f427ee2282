package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/quota"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type H2HConfig struct {
	// Ceiling is the number of head-to-head lookups allowed per UTC day.
	Ceiling             int
	Limit               int
	TrackedCompetitions []string
}

// H2HService caches head-to-head history on matches under a daily quota.
// The mutex serializes reserve, fetch and persist within the process; the
// ledger's conditional increment holds the ceiling across processes.
type H2HService struct {
	provider FootballDataProvider
	matches  match.Repository
	ledger   quota.Ledger
	cfg      H2HConfig
	logger   *logging.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewH2HService(
	provider FootballDataProvider,
	matches match.Repository,
	ledger quota.Ledger,
	cfg H2HConfig,
	logger *logging.Logger,
) *H2HService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = 10
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	cfg.TrackedCompetitions = normalizeCodes(cfg.TrackedCompetitions)

	return &H2HService{
		provider: provider,
		matches:  matches,
		ledger:   ledger,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchAndCacheH2H returns false without calling the provider when the match
// was refreshed today or the daily quota is spent.
func (s *H2HService) FetchAndCacheH2H(ctx context.Context, matchID int64, limit int) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.H2HService.FetchAndCacheH2H", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return false, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := dayOf(s.now())
	item, exists, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("get match id=%d: %w", matchID, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
	}
	if item.H2H.UpdatedOn(today) {
		return false, nil
	}

	if _, err := s.reconcile(ctx, today); err != nil {
		return false, err
	}
	granted, err := s.ledger.Reserve(ctx, today, s.cfg.Ceiling)
	if err != nil {
		return false, fmt.Errorf("reserve h2h quota: %w", err)
	}
	if !granted {
		s.logger.InfoContext(ctx, "h2h quota exhausted", "match_id", matchID, "ceiling", s.cfg.Ceiling)
		return false, nil
	}

	if err := s.fetchReserved(ctx, matchID, limit, today); err != nil {
		return false, err
	}
	return true, nil
}

// FetchForUpcoming fetches H2H for matches kicking off within daysAhead days.
func (s *H2HService) FetchForUpcoming(ctx context.Context, daysAhead int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.H2HService.FetchForUpcoming", attribute.Int("h2h.days_ahead", daysAhead))
	defer span.End()

	if daysAhead <= 0 {
		return 0, fmt.Errorf("%w: days_ahead must be greater than zero", ErrInvalidInput)
	}
	now := s.now().UTC()
	return s.fetchWindow(ctx, now, now.AddDate(0, 0, daysAhead))
}

// FetchForToday fetches H2H for matches kicking off on the current UTC day.
func (s *H2HService) FetchForToday(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.H2HService.FetchForToday")
	defer span.End()

	start, end := dayBounds(s.now())
	return s.fetchWindow(ctx, start, end)
}

// Remaining reports how many lookups are left for the current day.
func (s *H2HService) Remaining(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	used, err := s.reconcile(ctx, dayOf(s.now()))
	if err != nil {
		return 0, err
	}
	return max(s.cfg.Ceiling-used, 0), nil
}

func (s *H2HService) fetchWindow(ctx context.Context, from, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := dayOf(s.now())
	used, err := s.reconcile(ctx, today)
	if err != nil {
		return 0, err
	}
	if used >= s.cfg.Ceiling {
		s.logger.InfoContext(ctx, "h2h quota already used", "used", used, "ceiling", s.cfg.Ceiling)
		return 0, nil
	}
	remaining := s.cfg.Ceiling - used

	candidates, err := s.matches.Find(ctx, match.Filter{
		CompetitionCodes: s.cfg.TrackedCompetitions,
		Statuses:         match.UpcomingStatuses(),
		KickoffFrom:      from,
		KickoffBefore:    before,
		H2HNotUpdatedOn:  today,
		Limit:            remaining,
	})
	if err != nil {
		return 0, fmt.Errorf("find h2h candidates: %w", err)
	}

	fetched := 0
	for _, candidate := range candidates {
		granted, err := s.ledger.Reserve(ctx, today, s.cfg.Ceiling)
		if err != nil {
			return fetched, fmt.Errorf("reserve h2h quota: %w", err)
		}
		if !granted {
			break
		}
		if err := s.fetchReserved(ctx, candidate.ID, s.cfg.Limit, today); err != nil {
			s.logger.WarnContext(ctx, "h2h fetch failed", "match_id", candidate.ID, "error", err)
			continue
		}
		fetched++
	}

	s.logger.InfoContext(ctx, "h2h batch finished",
		"fetched", fetched,
		"candidates", len(candidates),
		"used_before", used,
		"ceiling", s.cfg.Ceiling,
	)
	return fetched, nil
}

// fetchReserved runs with a quota unit already held. A failed provider call
// gives the unit back; a failed write keeps it since the call was spent.
func (s *H2HService) fetchReserved(ctx context.Context, matchID int64, limit int, today string) error {
	if limit <= 0 {
		limit = s.cfg.Limit
	}

	h2h, err := s.provider.GetHeadToHead(ctx, matchID, limit)
	if err != nil {
		if releaseErr := s.ledger.Release(ctx, today); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("release h2h quota: %w", releaseErr))
		}
		return fmt.Errorf("fetch h2h match id=%d: %w", matchID, err)
	}

	h2h.LastUpdated = today
	if err := s.matches.SetH2H(ctx, matchID, h2h); err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
		}
		return fmt.Errorf("store h2h match id=%d: %w", matchID, err)
	}
	return nil
}

// reconcile returns the larger of the ledger and the number of matches whose
// cache was refreshed today, raising the ledger to match.
func (s *H2HService) reconcile(ctx context.Context, today string) (int, error) {
	derived, err := s.matches.Count(ctx, match.Filter{H2HUpdatedOn: today})
	if err != nil {
		return 0, fmt.Errorf("count h2h updated today: %w", err)
	}
	used, err := s.ledger.Reconcile(ctx, today, derived)
	if err != nil {
		return 0, fmt.Errorf("reconcile h2h quota: %w", err)
	}
	return used, nil
}
