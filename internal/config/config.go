package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	defaultTrackedCompetitions = "PL,PD,BL1,CL,SA,ELC"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                            string
	ServiceName                       string
	ServiceVersion                    string
	HTTPAddr                          string
	StorageDriver                     string
	DBURL                             string
	DBDisablePreparedBinary           bool
	CacheEnabled                      bool
	CacheTTL                          time.Duration
	CORSAllowedOrigins                []string
	ReadTimeout                       time.Duration
	WriteTimeout                      time.Duration
	PprofEnabled                      bool
	PprofAddr                         string
	SwaggerEnabled                    bool
	UptraceEnabled                    bool
	UptraceDSN                        string
	UptraceLogsEnabled                bool
	PyroscopeEnabled                  bool
	PyroscopeServerAddress            string
	PyroscopeAppName                  string
	PyroscopeAuthToken                string
	PyroscopeBasicAuthUser            string
	PyroscopeBasicAuthPassword        string
	PyroscopeUploadRate               time.Duration
	FootballDataBaseURL               string
	FootballDataToken                 string
	FootballDataTimeout               time.Duration
	FootballDataMaxRetries            int
	FootballDataRetryBaseDelay        time.Duration
	FootballDataCircuitEnabled        bool
	FootballDataCircuitFailureCount   int
	FootballDataCircuitOpenTimeout    time.Duration
	FootballDataCircuitHalfOpenMaxReq int
	Season                            int
	TrackedCompetitions               []string
	MaxFixtures                       int
	MaxDaysBack                       int
	MaxH2HPerDay                      int
	H2HLimit                          int
	H2HEagerDays                      int
	PredictionLimit                   int
	TeamFormDecay                     float64
	TeamStatsWorkers                  int
	CleanupRetentionDays              int
	InternalJobToken                  string
	QStashEnabled                     bool
	QStashBaseURL                     string
	QStashToken                       string
	QStashTargetBaseURL               string
	QStashRetries                     int
	QStashCircuitEnabled              bool
	QStashCircuitFailureCount         int
	QStashCircuitOpenTimeout          time.Duration
	QStashCircuitHalfOpenMaxReq       int
	DailyRunAtUTC                     string
	LogLevel                          logging.Level
}

// LoadDotEnv reads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	if err := LoadDotEnv(getEnv("DOTENV_PATH", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch storageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	footballDataRetryBaseDelay, err := time.ParseDuration(getEnv("FOOTBALL_DATA_RETRY_BASE_DELAY", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_RETRY_BASE_DELAY: %w", err)
	}
	if footballDataRetryBaseDelay <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_RETRY_BASE_DELAY must be > 0")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footballDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footballDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footballDataCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footballDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	season, err := getEnvAsInt("FOOTBALL_DATA_SEASON", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_SEASON: %w", err)
	}
	if season < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_SEASON must be >= 0")
	}

	trackedCompetitions := splitCSV(strings.ToUpper(getEnv("TRACKED_COMPETITIONS", defaultTrackedCompetitions)))
	if len(trackedCompetitions) == 0 {
		return Config{}, fmt.Errorf("TRACKED_COMPETITIONS cannot be empty")
	}

	maxFixtures, err := getEnvAsInt("MAX_FIXTURES", 15)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_FIXTURES: %w", err)
	}
	if maxFixtures <= 0 {
		return Config{}, fmt.Errorf("MAX_FIXTURES must be > 0")
	}
	maxDaysBack, err := getEnvAsInt("MAX_DAYS_BACK", 90)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_DAYS_BACK: %w", err)
	}
	if maxDaysBack <= 0 {
		return Config{}, fmt.Errorf("MAX_DAYS_BACK must be > 0")
	}
	maxH2HPerDay, err := getEnvAsInt("MAX_H2H_PER_DAY", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_H2H_PER_DAY: %w", err)
	}
	if maxH2HPerDay <= 0 {
		return Config{}, fmt.Errorf("MAX_H2H_PER_DAY must be > 0")
	}
	h2hLimit, err := getEnvAsInt("H2H_LIMIT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse H2H_LIMIT: %w", err)
	}
	if h2hLimit <= 0 {
		return Config{}, fmt.Errorf("H2H_LIMIT must be > 0")
	}
	h2hEagerDays, err := getEnvAsInt("H2H_EAGER_DAYS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse H2H_EAGER_DAYS: %w", err)
	}
	if h2hEagerDays < 0 {
		return Config{}, fmt.Errorf("H2H_EAGER_DAYS must be >= 0")
	}
	predictionLimit, err := getEnvAsInt("PREDICTION_LIMIT", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTION_LIMIT: %w", err)
	}
	if predictionLimit <= 0 {
		return Config{}, fmt.Errorf("PREDICTION_LIMIT must be > 0")
	}
	teamFormDecay, err := strconv.ParseFloat(strings.TrimSpace(getEnv("TEAM_FORM_DECAY", "0")), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_FORM_DECAY: %w", err)
	}
	if teamFormDecay < 0 || teamFormDecay > 1 {
		return Config{}, fmt.Errorf("TEAM_FORM_DECAY must be within [0,1]")
	}
	teamStatsWorkers, err := getEnvAsInt("TEAM_STATS_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_STATS_WORKERS: %w", err)
	}
	if teamStatsWorkers < 1 {
		return Config{}, fmt.Errorf("TEAM_STATS_WORKERS must be >= 1")
	}
	cleanupRetentionDays, err := getEnvAsInt("CLEANUP_RETENTION_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLEANUP_RETENTION_DAYS: %w", err)
	}
	if cleanupRetentionDays <= 0 {
		return Config{}, fmt.Errorf("CLEANUP_RETENTION_DAYS must be > 0")
	}

	dailyRunAtUTC := strings.TrimSpace(getEnv("DAILY_RUN_AT_UTC", "06:00"))
	if _, err := time.Parse("15:04", dailyRunAtUTC); err != nil {
		return Config{}, fmt.Errorf("parse DAILY_RUN_AT_UTC: expected HH:MM, got %q", dailyRunAtUTC)
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashCircuitEnabled, err := strconv.ParseBool(getEnv("QSTASH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_ENABLED: %w", err)
	}
	qstashCircuitFailureCount, err := getEnvAsInt("QSTASH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if qstashCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	qstashCircuitOpenTimeout, err := time.ParseDuration(getEnv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if qstashCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	qstashCircuitHalfOpenMaxReq, err := getEnvAsInt("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if qstashCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                            appEnv,
		ServiceName:                       getEnv("SERVICE_NAME", "football-predictions-api"),
		ServiceVersion:                    getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:                          getEnv("HTTP_ADDR", ":8080"),
		StorageDriver:                     storageDriver,
		DBURL:                             dbURL,
		CORSAllowedOrigins:                splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                      pprofEnabled,
		PprofAddr:                         pprofAddr,
		SwaggerEnabled:                    swaggerEnabled,
		UptraceEnabled:                    uptraceEnabled,
		UptraceDSN:                        uptraceDSN,
		UptraceLogsEnabled:                uptraceLogsEnabled,
		PyroscopeEnabled:                  pyroscopeEnabled,
		PyroscopeServerAddress:            pyroscopeServerAddress,
		PyroscopeAuthToken:                strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:            strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:               pyroscopeUploadRate,
		FootballDataBaseURL:               strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataToken:                 strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", "")),
		FootballDataTimeout:               footballDataTimeout,
		FootballDataMaxRetries:            footballDataMaxRetries,
		FootballDataRetryBaseDelay:        footballDataRetryBaseDelay,
		FootballDataCircuitEnabled:        footballDataCircuitEnabled,
		FootballDataCircuitFailureCount:   footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:    footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenMaxReq: footballDataCircuitHalfOpenMaxReq,
		Season:                            season,
		TrackedCompetitions:               trackedCompetitions,
		MaxFixtures:                       maxFixtures,
		MaxDaysBack:                       maxDaysBack,
		MaxH2HPerDay:                      maxH2HPerDay,
		H2HLimit:                          h2hLimit,
		H2HEagerDays:                      h2hEagerDays,
		PredictionLimit:                   predictionLimit,
		TeamFormDecay:                     teamFormDecay,
		TeamStatsWorkers:                  teamStatsWorkers,
		CleanupRetentionDays:              cleanupRetentionDays,
		InternalJobToken:                  internalJobToken,
		QStashEnabled:                     qstashEnabled,
		QStashBaseURL:                     qstashBaseURL,
		QStashToken:                       qstashToken,
		QStashTargetBaseURL:               qstashTargetBaseURL,
		QStashRetries:                     qstashRetries,
		QStashCircuitEnabled:              qstashCircuitEnabled,
		QStashCircuitFailureCount:         qstashCircuitFailureCount,
		QStashCircuitOpenTimeout:          qstashCircuitOpenTimeout,
		QStashCircuitHalfOpenMaxReq:       qstashCircuitHalfOpenMaxReq,
		DailyRunAtUTC:                     dailyRunAtUTC,
		LogLevel:                          logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
