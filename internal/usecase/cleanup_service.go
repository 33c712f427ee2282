package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type CleanupConfig struct {
	RetentionDays int
	// HistoryDays is kept on top of the retention window for finished
	// matches, so form history survives cleanup.
	HistoryDays int
}

type TableCleanup struct {
	Deleted int    `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

type CleanupResult struct {
	CutoffDate   string                  `json:"cutoff_date"`
	Tables       map[string]TableCleanup `json:"tables"`
	TotalDeleted int                     `json:"total_deleted"`
}

type TableStats struct {
	Count  int    `json:"count"`
	Oldest string `json:"oldest,omitempty"`
	Newest string `json:"newest,omitempty"`
	Error  string `json:"error,omitempty"`
}

type DatabaseStats struct {
	Tables           map[string]TableStats `json:"tables"`
	MatchesWithH2H   int                   `json:"matches_with_h2h"`
	FinishedMatches  int                   `json:"finished_matches"`
	ScheduledMatches int                   `json:"scheduled_matches"`
}

type CleanupService struct {
	competitions competition.Repository
	matches      match.Repository
	stats        teamstats.Repository
	predictions  prediction.Repository
	cfg          CleanupConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewCleanupService(
	competitions competition.Repository,
	matches match.Repository,
	stats teamstats.Repository,
	predictions prediction.Repository,
	cfg CleanupConfig,
	logger *logging.Logger,
) *CleanupService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 90
	}

	return &CleanupService{
		competitions: competitions,
		matches:      matches,
		stats:        stats,
		predictions:  predictions,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// CleanupOldRecords removes rows older than days. Each table is cleaned
// independently and reports its own error.
func (s *CleanupService) CleanupOldRecords(ctx context.Context, days int) CleanupResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.CleanupService.CleanupOldRecords", attribute.Int("cleanup.days", days))
	defer span.End()

	if days <= 0 {
		days = s.cfg.RetentionDays
	}
	start, _ := dayBounds(s.now())
	cutoff := start.AddDate(0, 0, -days)
	result := CleanupResult{
		CutoffDate: dayOf(cutoff),
		Tables:     make(map[string]TableCleanup, 3),
	}

	record := func(table string, deleted int, err error) {
		row := TableCleanup{Deleted: deleted}
		if err != nil {
			row.Error = err.Error()
			s.logger.WarnContext(ctx, "cleanup failed", "table", table, "error", err)
		}
		result.Tables[table] = row
		result.TotalDeleted += deleted
	}

	deleted, err := s.predictions.DeleteCreatedBefore(ctx, dayOf(cutoff))
	record("predictions", deleted, err)

	deleted, err = s.stats.DeleteComputedBefore(ctx, cutoff)
	record("team_stats", deleted, err)

	deleted, err = s.matches.DeleteFinishedBefore(ctx, cutoff.AddDate(0, 0, -s.cfg.HistoryDays))
	record("matches", deleted, err)

	s.logger.InfoContext(ctx, "cleanup finished", "cutoff", result.CutoffDate, "deleted", result.TotalDeleted)
	return result
}

func (s *CleanupService) DatabaseStats(ctx context.Context) DatabaseStats {
	ctx, span := startUsecaseSpan(ctx, "usecase.CleanupService.DatabaseStats")
	defer span.End()

	out := DatabaseStats{Tables: make(map[string]TableStats, 4)}

	if summary, err := s.competitions.Summary(ctx); err != nil {
		out.Tables["competitions"] = TableStats{Error: err.Error()}
	} else {
		out.Tables["competitions"] = TableStats{Count: summary.Count, Oldest: summary.Oldest, Newest: summary.Newest}
	}

	if summary, err := s.matches.Summary(ctx); err != nil {
		out.Tables["matches"] = TableStats{Error: err.Error()}
	} else {
		out.Tables["matches"] = TableStats{Count: summary.Count, Oldest: summary.Oldest, Newest: summary.Newest}
		out.MatchesWithH2H = summary.WithH2H
		out.FinishedMatches = summary.Finished
		out.ScheduledMatches = summary.Scheduled
	}

	if summary, err := s.stats.Summary(ctx); err != nil {
		out.Tables["team_stats"] = TableStats{Error: err.Error()}
	} else {
		out.Tables["team_stats"] = TableStats{Count: summary.Count, Oldest: summary.Oldest, Newest: summary.Newest}
	}

	if summary, err := s.predictions.Summary(ctx); err != nil {
		out.Tables["predictions"] = TableStats{Error: err.Error()}
	} else {
		out.Tables["predictions"] = TableStats{Count: summary.Count, Oldest: summary.Oldest, Newest: summary.Newest}
	}

	return out
}
