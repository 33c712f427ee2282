package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/blending"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/tracing"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

type PredictionConfig struct {
	TrackedCompetitions []string
	Limit               int
	Workers             int
	Params              blending.Params
}

type PredictOptions struct {
	UseH2H        bool
	FetchOnDemand bool
	Limit         int
}

type h2hTodayFetcher interface {
	FetchForToday(ctx context.Context) (int, error)
}

type PredictionService struct {
	matches     match.Repository
	stats       teamstats.Repository
	predictions prediction.Repository
	h2h         h2hTodayFetcher
	cfg         PredictionConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewPredictionService(
	matches match.Repository,
	stats teamstats.Repository,
	predictions prediction.Repository,
	h2h h2hTodayFetcher,
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 30
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.Params == (blending.Params{}) {
		cfg.Params = blending.DefaultParams()
	}
	cfg.TrackedCompetitions = normalizeCodes(cfg.TrackedCompetitions)

	return &PredictionService{
		matches:     matches,
		stats:       stats,
		predictions: predictions,
		h2h:         h2h,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// PredictToday predicts today's upcoming tracked matches, stores the day's
// predictions and returns them ranked by composite score.
func (s *PredictionService) PredictToday(ctx context.Context, opts PredictOptions) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictToday",
		attribute.Bool("prediction.use_h2h", opts.UseH2H),
		attribute.Int("prediction.limit", opts.Limit),
	)
	defer span.End()

	now := s.now().UTC()
	if opts.UseH2H && opts.FetchOnDemand && s.h2h != nil {
		fetched, err := s.h2h.FetchForToday(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "on-demand h2h fetch failed", "error", err)
		} else {
			s.logger.InfoContext(ctx, "on-demand h2h fetch finished", "fetched", fetched)
		}
	}

	items, err := s.predictDay(ctx, now, opts.UseH2H)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	// An empty run must not wipe the day, e.g. an H2H-only request after the
	// quota is spent.
	if len(items) > 0 {
		today := dayOf(now)
		if err := s.predictions.ReplaceForDay(ctx, today, items); err != nil {
			tracing.Fail(span, err)
			return nil, fmt.Errorf("store predictions day=%s: %w", today, err)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.Limit
	}
	return prediction.Rank(items, limit), nil
}

// PredictForDate predicts the upcoming matches of day without storing them.
func (s *PredictionService) PredictForDate(ctx context.Context, day string, useH2H bool) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictForDate", attribute.String("prediction.date", day))
	defer span.End()

	start, ok := parseDay(day)
	if !ok {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	items, err := s.predictDay(ctx, start, useH2H)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	return prediction.Rank(items, 0), nil
}

func (s *PredictionService) PersistedToday(ctx context.Context) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PersistedToday")
	defer span.End()

	today := dayOf(s.now())
	items, err := s.predictions.ListByDay(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list predictions day=%s: %w", today, err)
	}
	return items, nil
}

func (s *PredictionService) predictDay(ctx context.Context, at time.Time, useH2H bool) ([]prediction.Prediction, error) {
	start, end := dayBounds(at)
	fixtures, err := s.matches.Find(ctx, match.Filter{
		CompetitionCodes: s.cfg.TrackedCompetitions,
		Statuses:         match.UpcomingStatuses(),
		KickoffFrom:      start,
		KickoffBefore:    end,
		WithH2HOnly:      useH2H,
	})
	if err != nil {
		return nil, fmt.Errorf("find matches day=%s: %w", dayOf(start), err)
	}
	if len(fixtures) == 0 {
		return []prediction.Prediction{}, nil
	}

	teamIDs := make([]int64, 0, len(fixtures)*2)
	for _, item := range fixtures {
		teamIDs = append(teamIDs, item.HomeTeam.ID, item.AwayTeam.ID)
	}
	stats, err := s.stats.GetByTeamIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("load team stats: %w", err)
	}

	createdAt := dayOf(s.now())
	mapper := iter.Mapper[match.Match, prediction.Prediction]{MaxGoroutines: s.cfg.Workers}
	items := mapper.Map(fixtures, func(item *match.Match) prediction.Prediction {
		home := statsOrFallback(stats, item.HomeTeam.ID, item.Competition.Code)
		away := statsOrFallback(stats, item.AwayTeam.ID, item.Competition.Code)
		return s.buildPrediction(*item, home, away, useH2H, createdAt)
	})

	s.logger.InfoContext(ctx, "predictions computed", "day", dayOf(start), "count", len(items), "use_h2h", useH2H)
	return items, nil
}

func (s *PredictionService) buildPrediction(item match.Match, home, away teamstats.TeamStats, useH2H bool, createdAt string) prediction.Prediction {
	in := blending.Input{
		HomeTeamID: item.HomeTeam.ID,
		AwayTeamID: item.AwayTeam.ID,
		Home:       &home,
		Away:       &away,
	}
	if useH2H {
		in.H2H = item.H2H
	}
	res := s.cfg.Params.Predict(in)
	homeP, drawP, awayP, predictedP := roundOutcome(res.Outcome, res.Predicted)

	return prediction.Prediction{
		MatchID:                     item.ID,
		Match:                       item.Label(),
		Competition:                 item.Competition.Name,
		CompetitionCode:             item.Competition.Code,
		CompetitionEmblem:           item.Competition.Emblem,
		HomeTeam:                    item.HomeTeam.Name,
		HomeTeamCrest:               item.HomeTeam.Crest,
		AwayTeam:                    item.AwayTeam.Name,
		AwayTeamCrest:               item.AwayTeam.Crest,
		UTCDate:                     item.UTCDate,
		Matchday:                    item.Matchday,
		HomeWinProbability:          homeP,
		HomeWinConfidence:           res.HomeConf,
		DrawProbability:             drawP,
		DrawConfidence:              res.DrawConf,
		AwayWinProbability:          awayP,
		AwayWinConfidence:           res.AwayConf,
		PredictedOutcome:            res.Predicted,
		PredictedOutcomeProbability: predictedP,
		Goals: prediction.GoalsPrediction{
			Bet:         res.GoalsBet,
			Probability: round3(res.GoalsProb),
			Confidence:  res.GoalsConf,
		},
		BTTSProbability: round3(res.BTTS),
		BTTSConfidence:  res.BTTSConf,
		Method:          res.Method,
		H2HAvailable:    item.H2H != nil,
		CreatedAt:       createdAt,
	}
}

func statsOrFallback(stats map[int64]teamstats.TeamStats, teamID int64, league string) teamstats.TeamStats {
	if item, ok := stats[teamID]; ok {
		return item
	}
	return teamstats.FallbackStats(teamID, league)
}

// roundOutcome rounds to 3 decimals with the largest remainder method, so the
// stored triple sums to one and keeps its order.
func roundOutcome(o blending.Outcome, predicted string) (home, draw, away, predictedP float64) {
	raw := [3]float64{o.Home * 1000, o.Draw * 1000, o.Away * 1000}
	var units [3]int
	left := 1000
	for i, v := range raw {
		units[i] = int(math.Floor(v))
		left -= units[i]
	}

	order := []int{0, 1, 2}
	sort.SliceStable(order, func(a, b int) bool {
		return raw[order[a]]-float64(units[order[a]]) > raw[order[b]]-float64(units[order[b]])
	})
	for i := 0; left > 0; i++ {
		units[order[i%3]]++
		left--
	}

	home, draw, away = float64(units[0])/1000, float64(units[1])/1000, float64(units[2])/1000
	switch predicted {
	case prediction.OutcomeDraw:
		return home, draw, away, draw
	case prediction.OutcomeAwayWin:
		return home, draw, away, away
	default:
		return home, draw, away, home
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
