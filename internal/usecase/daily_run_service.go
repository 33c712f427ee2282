package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const DailyRunJobPath = "/v1/internal/jobs/daily-run"

type DailyRunConfig struct {
	H2HEagerDays int
	// ChainNext enqueues the following run at RunAtUTC ("HH:MM") after each run.
	ChainNext bool
	RunAtUTC  string
}

type RunResult struct {
	RunID                string         `json:"run_id"`
	Date                 string         `json:"date"`
	CompetitionsIngested int            `json:"competitions_ingested"`
	MatchesIngested      map[string]int `json:"matches_ingested"`
	ResultsIngested      map[string]int `json:"results_ingested"`
	TeamsUpdated         int            `json:"teams_updated"`
	H2HFetched           int            `json:"h2h_fetched"`
	Errors               []string       `json:"errors"`
	Note                 string         `json:"note,omitempty"`
	NextRunAt            *time.Time     `json:"next_run_at,omitempty"`
}

type DailyRunService struct {
	ingestion *IngestionService
	teamStats *TeamStatsService
	h2h       *H2HService
	queue     JobQueue
	cfg       DailyRunConfig
	logger    *logging.Logger
	now       func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewDailyRunService(
	ingestion *IngestionService,
	teamStats *TeamStatsService,
	h2h *H2HService,
	queue JobQueue,
	cfg DailyRunConfig,
	logger *logging.Logger,
) *DailyRunService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.RunAtUTC) == "" {
		cfg.RunAtUTC = "06:00"
	}

	return &DailyRunService{
		ingestion: ingestion,
		teamStats: teamStats,
		h2h:       h2h,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the daily pipeline. A failing step is recorded in Errors and
// the remaining steps still run.
func (s *DailyRunService) Run(ctx context.Context) RunResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.DailyRunService.Run")
	defer span.End()

	now := s.now().UTC()
	result := RunResult{
		RunID:           uuid.NewString(),
		Date:            dayOf(now),
		MatchesIngested: map[string]int{},
		ResultsIngested: map[string]int{},
		Errors:          []string{},
	}
	span.SetAttributes(attribute.String("run.id", result.RunID), attribute.String("run.date", result.Date))
	logger := s.logger.With("run_id", result.RunID)
	logger.InfoContext(ctx, "daily run started", "date", result.Date)

	competitions, err := s.ingestion.IngestCompetitions(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("competitions: %v", err))
	}
	result.CompetitionsIngested = competitions

	matches, errs := s.ingestion.IngestAllTrackedMatches(ctx)
	result.MatchesIngested = matches
	result.Errors = append(result.Errors, errs...)

	results, errs := s.ingestion.IngestRecentResults(ctx)
	result.ResultsIngested = results
	for _, item := range errs {
		result.Errors = append(result.Errors, "results "+item)
	}

	if s.teamStats != nil {
		updated, errs := s.teamStats.UpdateAllTeams(ctx, s.ingestion.TrackedCompetitions(), 0, 0)
		result.TeamsUpdated = updated
		for _, item := range errs {
			result.Errors = append(result.Errors, "team stats "+item)
		}
	}

	if s.h2h != nil && s.cfg.H2HEagerDays > 0 {
		fetched, err := s.h2h.FetchForUpcoming(ctx, s.cfg.H2HEagerDays)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("h2h: %v", err))
		}
		result.H2HFetched = fetched
	} else {
		result.Note = "h2h is fetched lazily when predictions are requested"
	}

	if s.cfg.ChainNext {
		next, err := s.enqueueNext(ctx, now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("schedule next run: %v", err))
		} else {
			result.NextRunAt = &next
		}
	}

	logger.InfoContext(ctx, "daily run finished",
		"competitions", result.CompetitionsIngested,
		"teams_updated", result.TeamsUpdated,
		"h2h_fetched", result.H2HFetched,
		"errors", len(result.Errors),
	)
	return result
}

func (s *DailyRunService) enqueueNext(ctx context.Context, now time.Time) (time.Time, error) {
	next, err := nextRunAt(now, s.cfg.RunAtUTC)
	if err != nil {
		return time.Time{}, err
	}
	dedupID := sanitizeDedupSegment("daily-run-" + dayOf(next))
	payload := map[string]any{"dispatch_id": dedupID}
	if err := s.queue.Enqueue(ctx, DailyRunJobPath, payload, next.Sub(now), dedupID); err != nil {
		return time.Time{}, fmt.Errorf("enqueue daily run: %w", err)
	}
	return next, nil
}

// nextRunAt is the first occurrence of clock ("HH:MM", UTC) strictly after now.
func nextRunAt(now time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: run time must be HH:MM", ErrInvalidInput)
	}
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
