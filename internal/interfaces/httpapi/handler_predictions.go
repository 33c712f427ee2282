package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-predictions/internal/usecase"
)

func (h *Handler) PredictToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictToday")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	values := r.URL.Query()
	useH2H, err := parseBoolQuery(values, "use_h2h", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	fetchOnDemand, err := parseBoolQuery(values, "fetch_h2h_on_demand", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseIntQuery(values, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := predictTodayQuery{UseH2H: useH2H, FetchOnDemand: fetchOnDemand, Limit: limit}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.PredictToday(ctx, usecase.PredictOptions{
		UseH2H:        query.UseH2H,
		FetchOnDemand: query.FetchOnDemand,
		Limit:         query.Limit,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "predict today failed", "use_h2h", query.UseH2H, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PersistedToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PersistedToday")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	items, err := h.predictionService.PersistedToday(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list persisted predictions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PredictForDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictForDate")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	useH2H, err := parseBoolQuery(r.URL.Query(), "use_h2h", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := predictDateQuery{Date: r.PathValue("date"), UseH2H: useH2H}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.PredictForDate(ctx, query.Date, query.UseH2H)
	if err != nil {
		h.logger.ErrorContext(ctx, "predict for date failed", "date", query.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
