package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultFormDaysBack   = 90
	defaultFormMaxMatches = 15
)

type TeamStatsConfig struct {
	TrackedCompetitions []string
	DaysBack            int
	MaxMatches          int
	// Decay in (0,1] weights the i-th most recent match by Decay^i. Zero
	// keeps plain averages.
	Decay   float64
	Workers int
}

type TeamStatsService struct {
	matches match.Repository
	stats   teamstats.Repository
	history TeamHistoryProvider
	cfg     TeamStatsConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewTeamStatsService(
	matches match.Repository,
	stats teamstats.Repository,
	cfg TeamStatsConfig,
	logger *logging.Logger,
) *TeamStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = defaultFormDaysBack
	}
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = defaultFormMaxMatches
	}
	if cfg.Decay < 0 || cfg.Decay > 1 {
		cfg.Decay = 0
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	cfg.TrackedCompetitions = normalizeCodes(cfg.TrackedCompetitions)

	return &TeamStatsService{
		matches: matches,
		stats:   stats,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// WithTeamHistory makes ComputeTeamStats pull a team's finished matches from
// the provider when none are stored, and makes UpdateAllTeams include teams
// that only have upcoming fixtures.
func (s *TeamStatsService) WithTeamHistory(history TeamHistoryProvider) *TeamStatsService {
	s.history = history
	return s
}

// ComputeTeamStats summarizes a team's recent finished matches. It returns
// nil when the team has no scored match in the window.
func (s *TeamStatsService) ComputeTeamStats(ctx context.Context, teamID int64, competitionCode string, daysBack, maxMatches int) (*teamstats.TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.ComputeTeamStats", attribute.Int64("team.id", teamID))
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	if daysBack <= 0 {
		daysBack = s.cfg.DaysBack
	}
	if maxMatches <= 0 {
		maxMatches = s.cfg.MaxMatches
	}

	now := s.now().UTC()
	filter := match.Filter{
		TeamID:      teamID,
		Statuses:    []string{match.StatusFinished},
		KickoffFrom: now.AddDate(0, 0, -daysBack),
		NewestFirst: true,
		Limit:       maxMatches,
	}
	code := competition.NormalizeCode(competitionCode)
	if code != "" {
		filter.CompetitionCodes = []string{code}
	}

	history, err := s.matches.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find finished matches team=%d: %w", teamID, err)
	}
	if len(history) == 0 && s.history != nil {
		history, err = s.backfillHistory(ctx, teamID, filter)
		if err != nil {
			return nil, err
		}
	}

	agg := newFormAggregate(s.cfg.Decay)
	for _, item := range history {
		home, away, ok := item.FullTimeGoals()
		if !ok {
			continue
		}
		isHome := item.HomeTeam.ID == teamID
		goalsFor, goalsAgainst := home, away
		if !isHome {
			goalsFor, goalsAgainst = away, home
		}
		agg.add(isHome, goalsFor, goalsAgainst)
	}
	if agg.games == 0 {
		return nil, nil
	}

	out := agg.stats(teamID, code, now)
	return &out, nil
}

// backfillHistory stores the team's finished matches from the provider and
// re-runs filter against the match store.
func (s *TeamStatsService) backfillHistory(ctx context.Context, teamID int64, filter match.Filter) ([]match.Match, error) {
	limit := filter.Limit
	if len(filter.CompetitionCodes) > 0 {
		limit = 0
	}
	page, err := s.history.GetTeamMatches(ctx, teamID, limit, match.StatusFinished)
	if err != nil {
		return nil, fmt.Errorf("fetch team history team=%d: %w", teamID, err)
	}
	if len(page.Matches) == 0 {
		return nil, nil
	}
	stored, err := s.matches.Upsert(ctx, page.Matches)
	if err != nil {
		return nil, fmt.Errorf("store team history team=%d: %w", teamID, err)
	}
	s.logger.InfoContext(ctx, "team history backfilled", "team_id", teamID, "matches", stored)

	history, err := s.matches.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find finished matches team=%d: %w", teamID, err)
	}
	return history, nil
}

// UpdateAllTeams recomputes every team seen in finished matches of the window
// on a bounded worker pool. Per-team failures are reported, not fatal.
// With a history provider, teams of upcoming fixtures are recomputed too.
func (s *TeamStatsService) UpdateAllTeams(ctx context.Context, codes []string, daysBack, maxMatches int) (int, []string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.UpdateAllTeams")
	defer span.End()

	codes = normalizeCodes(codes)
	if len(codes) == 0 {
		codes = s.cfg.TrackedCompetitions
	}
	if daysBack <= 0 {
		daysBack = s.cfg.DaysBack
	}

	finished, err := s.matches.Find(ctx, match.Filter{
		CompetitionCodes: codes,
		Statuses:         []string{match.StatusFinished},
		KickoffFrom:      s.now().UTC().AddDate(0, 0, -daysBack),
	})
	if err != nil {
		return 0, []string{fmt.Sprintf("find finished matches: %v", err)}
	}

	teams := teamCompetitions(finished)
	if s.history != nil {
		upcoming, err := s.matches.Find(ctx, match.Filter{
			CompetitionCodes: codes,
			Statuses:         match.UpcomingStatuses(),
			KickoffFrom:      s.now().UTC(),
		})
		if err != nil {
			return 0, []string{fmt.Sprintf("find upcoming matches: %v", err)}
		}
		for id, code := range teamCompetitions(upcoming) {
			if _, ok := teams[id]; !ok {
				teams[id] = code
			}
		}
	}
	if len(teams) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(teams))
	for id := range teams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return 0, []string{fmt.Sprintf("create worker pool: %v", err)}
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		updated int
		errs    []string
		workers sync.WaitGroup
	)
	record := func(msg string) {
		mu.Lock()
		errs = append(errs, msg)
		mu.Unlock()
	}

	for _, teamID := range ids {
		teamID := teamID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			stats, err := s.ComputeTeamStats(ctx, teamID, "", daysBack, maxMatches)
			if err != nil {
				record(fmt.Sprintf("team %d: %v", teamID, err))
				return
			}
			if stats == nil {
				return
			}
			stats.CompetitionCode = teams[teamID]
			if err := s.stats.Upsert(ctx, *stats); err != nil {
				record(fmt.Sprintf("team %d: upsert: %v", teamID, err))
				return
			}
			mu.Lock()
			updated++
			mu.Unlock()
		}); err != nil {
			workers.Done()
			record(fmt.Sprintf("team %d: submit: %v", teamID, err))
		}
	}
	workers.Wait()

	sort.Strings(errs)
	s.logger.InfoContext(ctx, "team stats updated", "teams", len(ids), "updated", updated, "errors", len(errs))
	return updated, errs
}

// teamCompetitions maps each team to the competition of its most recent match.
func teamCompetitions(items []match.Match) map[int64]string {
	latest := make(map[int64]time.Time, len(items)*2)
	out := make(map[int64]string, len(items)*2)
	for _, item := range items {
		for _, id := range []int64{item.HomeTeam.ID, item.AwayTeam.ID} {
			if id <= 0 {
				continue
			}
			if seen, ok := latest[id]; ok && !item.UTCDate.After(seen) {
				continue
			}
			latest[id] = item.UTCDate
			out[id] = item.Competition.Code
		}
	}
	return out
}

type formAggregate struct {
	decay float64
	games int
	rank  int

	weight, points, goalsFor, goalsAgainst float64

	homeWeight, homePoints float64
	awayWeight, awayPoints float64
}

func newFormAggregate(decay float64) *formAggregate {
	return &formAggregate{decay: decay}
}

func (a *formAggregate) add(isHome bool, goalsFor, goalsAgainst int) {
	w := 1.0
	if a.decay > 0 {
		w = math.Pow(a.decay, float64(a.rank))
	}
	a.rank++
	a.games++

	pts := 0.0
	switch {
	case goalsFor > goalsAgainst:
		pts = 3
	case goalsFor == goalsAgainst:
		pts = 1
	}

	a.weight += w
	a.points += w * pts
	a.goalsFor += w * float64(goalsFor)
	a.goalsAgainst += w * float64(goalsAgainst)
	if isHome {
		a.homeWeight += w
		a.homePoints += w * pts
	} else {
		a.awayWeight += w
		a.awayPoints += w * pts
	}
}

func (a *formAggregate) stats(teamID int64, code string, now time.Time) teamstats.TeamStats {
	out := teamstats.TeamStats{
		TeamID:          teamID,
		CompetitionCode: code,
		Form:            teamstats.Round2(a.points / a.weight),
		GoalsFor:        teamstats.Round2(a.goalsFor / a.weight),
		GoalsAgainst:    teamstats.Round2(a.goalsAgainst / a.weight),
		GamesPlayed:     a.games,
		ComputedAt:      now,
	}
	if a.decay > 0 {
		if a.homeWeight > 0 {
			v := teamstats.Round2(a.homePoints / a.homeWeight)
			out.HomeForm = &v
		}
		if a.awayWeight > 0 {
			v := teamstats.Round2(a.awayPoints / a.awayWeight)
			out.AwayForm = &v
		}
	}
	return out
}
