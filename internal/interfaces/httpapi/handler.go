package httpapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

type Handler struct {
	predictionService *usecase.PredictionService
	analysisService   *usecase.AnalysisService
	cleanupService    *usecase.CleanupService
	h2hService        *usecase.H2HService
	dailyRunService   *usecase.DailyRunService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	predictionService *usecase.PredictionService,
	analysisService *usecase.AnalysisService,
	cleanupService *usecase.CleanupService,
	h2hService *usecase.H2HService,
	dailyRunService *usecase.DailyRunService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if analysisService == nil {
		analysisService = usecase.NewAnalysisService()
	}

	return &Handler{
		predictionService: predictionService,
		analysisService:   analysisService,
		cleanupService:    cleanupService,
		h2hService:        h2hService,
		dailyRunService:   dailyRunService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type predictTodayQuery struct {
	UseH2H        bool `validate:"-"`
	FetchOnDemand bool `validate:"-"`
	Limit         int  `validate:"gte=0,lte=200"`
}

type predictDateQuery struct {
	Date   string `validate:"required,datetime=2006-01-02"`
	UseH2H bool   `validate:"-"`
}

type topPicksQuery struct {
	Limit int `validate:"gte=0,lte=100"`
}

type h2hJobRequest struct {
	DaysAhead  int    `json:"days_ahead" validate:"gte=0,lte=14"`
	DispatchID string `json:"dispatch_id"`
}

type cleanupJobRequest struct {
	Days       int    `json:"days" validate:"gte=0,lte=365"`
	DispatchID string `json:"dispatch_id"`
}

type dailyRunJobRequest struct {
	DispatchID string `json:"dispatch_id"`
}

// parseBoolQuery returns fallback when key is absent.
func parseBoolQuery(values url.Values, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return parsed, nil
}

func parseIntQuery(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return parsed, nil
}
