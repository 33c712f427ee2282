package app

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-predictions/external/footballdata"
	"github.com/riskibarqy/football-predictions/external/jobqueue"
	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/quota"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	cacherepo "github.com/riskibarqy/football-predictions/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-predictions/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-predictions/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/football-predictions/internal/platform/cache"
	"github.com/riskibarqy/football-predictions/internal/platform/database"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
	"github.com/riskibarqy/football-predictions/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type repositories struct {
	competitions competition.Repository
	matches      match.Repository
	stats        teamstats.Repository
	predictions  prediction.Repository
	ledger       quota.Ledger
}

// Container holds the services shared by the API server and the daily-run CLI.
type Container struct {
	Ingestion   *usecase.IngestionService
	TeamStats   *usecase.TeamStatsService
	H2H         *usecase.H2HService
	Predictions *usecase.PredictionService
	Analysis    *usecase.AnalysisService
	Cleanup     *usecase.CleanupService
	DailyRun    *usecase.DailyRunService

	db *sqlx.DB
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FootballDataTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:        cfg.FootballDataBaseURL,
		Token:          cfg.FootballDataToken,
		Timeout:        cfg.FootballDataTimeout,
		MaxRetries:     cfg.FootballDataMaxRetries,
		RetryBaseDelay: cfg.FootballDataRetryBaseDelay,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	var queue usecase.JobQueue = usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	tracked := cfg.TrackedCompetitions
	ingestion := usecase.NewIngestionService(provider, repos.competitions, repos.matches, usecase.IngestionConfig{
		TrackedCompetitions: tracked,
		Season:              cfg.Season,
		DaysBack:            cfg.MaxDaysBack,
	}, logger)
	teamStats := usecase.NewTeamStatsService(repos.matches, repos.stats, usecase.TeamStatsConfig{
		TrackedCompetitions: tracked,
		DaysBack:            cfg.MaxDaysBack,
		MaxMatches:          cfg.MaxFixtures,
		Decay:               cfg.TeamFormDecay,
		Workers:             cfg.TeamStatsWorkers,
	}, logger).WithTeamHistory(provider)
	h2h := usecase.NewH2HService(provider, repos.matches, repos.ledger, usecase.H2HConfig{
		Ceiling:             cfg.MaxH2HPerDay,
		Limit:               cfg.H2HLimit,
		TrackedCompetitions: tracked,
	}, logger)
	predictions := usecase.NewPredictionService(repos.matches, repos.stats, repos.predictions, h2h, usecase.PredictionConfig{
		TrackedCompetitions: tracked,
		Limit:               cfg.PredictionLimit,
		Workers:             cfg.TeamStatsWorkers,
	}, logger)
	cleanup := usecase.NewCleanupService(repos.competitions, repos.matches, repos.stats, repos.predictions, usecase.CleanupConfig{
		RetentionDays: cfg.CleanupRetentionDays,
		HistoryDays:   cfg.MaxDaysBack,
	}, logger)
	dailyRun := usecase.NewDailyRunService(ingestion, teamStats, h2h, queue, usecase.DailyRunConfig{
		H2HEagerDays: cfg.H2HEagerDays,
		ChainNext:    cfg.QStashEnabled,
		RunAtUTC:     cfg.DailyRunAtUTC,
	}, logger)

	return &Container{
		Ingestion:   ingestion,
		TeamStats:   teamStats,
		H2H:         h2h,
		Predictions: predictions,
		Analysis:    usecase.NewAnalysisService(),
		Cleanup:     cleanup,
		DailyRun:    dailyRun,
		db:          db,
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		var err error
		db, err = database.Open(ctx, database.Config{
			URL:                   cfg.DBURL,
			DisablePreparedBinary: cfg.DBDisablePreparedBinary,
		})
		if err != nil {
			return repositories{}, nil, err
		}
		repos = repositories{
			competitions: postgres.NewCompetitionRepository(db),
			matches:      postgres.NewMatchRepository(db),
			stats:        postgres.NewTeamStatsRepository(db),
			predictions:  postgres.NewPredictionRepository(db),
			ledger:       postgres.NewQuotaLedger(db),
		}
	default:
		repos = repositories{
			competitions: memory.NewCompetitionRepository(nil),
			matches:      memory.NewMatchRepository(nil),
			stats:        memory.NewTeamStatsRepository(),
			predictions:  memory.NewPredictionRepository(),
			ledger:       memory.NewQuotaLedger(),
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.competitions = cacherepo.NewCompetitionRepository(repos.competitions, store)
		repos.stats = cacherepo.NewTeamStatsRepository(repos.stats, store)
		repos.predictions = cacherepo.NewPredictionRepository(repos.predictions, store)
	}

	logger.Info("storage configured",
		"driver", cfg.StorageDriver,
		"db_name", database.NameFromURL(cfg.DBURL),
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL.String(),
	)

	return repos, db, nil
}
