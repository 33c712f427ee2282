package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-predictions/internal/usecase"
)

func (h *Handler) AnalyzeToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeToday")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	items, err := h.predictionService.PersistedToday(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load predictions for analysis failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.analysisService.Analyze(items))
}

func (h *Handler) TopPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TopPicks")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit, err := parseIntQuery(r.URL.Query(), "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := topPicksQuery{Limit: limit}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	items, err := h.predictionService.PersistedToday(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load predictions for top picks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.analysisService.TopPicks(items, query.Limit))
}

func (h *Handler) DatabaseStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DatabaseStats")
	defer span.End()

	if h.cleanupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: cleanup service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.cleanupService.DatabaseStats(ctx))
}
