package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type h2hJobResult struct {
	DaysAhead int `json:"days_ahead"`
	Fetched   int `json:"fetched"`
	Remaining int `json:"remaining"`
}

func (h *Handler) RunDailyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyJob")
	defer span.End()

	if h.dailyRunService == nil {
		writeError(ctx, w, fmt.Errorf("%w: daily run service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req dailyRunJobRequest
	if err := decodeInternalJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.dailyRunService.Run(ctx)
	h.logInternalJob(ctx, "daily-run", req.DispatchID, len(result.Errors))

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunH2HJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunH2HJob")
	defer span.End()

	if h.h2hService == nil {
		writeError(ctx, w, fmt.Errorf("%w: h2h service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req h2hJobRequest
	if err := decodeInternalJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var (
		fetched int
		err     error
	)
	if req.DaysAhead == 0 {
		fetched, err = h.h2hService.FetchForToday(ctx)
	} else {
		fetched, err = h.h2hService.FetchForUpcoming(ctx, req.DaysAhead)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "run h2h job failed", "days_ahead", req.DaysAhead, "error", err)
		writeError(ctx, w, err)
		return
	}

	remaining, err := h.h2hService.Remaining(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.logInternalJob(ctx, "h2h", req.DispatchID, 0)

	writeSuccess(ctx, w, http.StatusOK, h2hJobResult{
		DaysAhead: req.DaysAhead,
		Fetched:   fetched,
		Remaining: remaining,
	})
}

func (h *Handler) RunCleanupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCleanupJob")
	defer span.End()

	if h.cleanupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: cleanup service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req cleanupJobRequest
	if err := decodeInternalJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.cleanupService.CleanupOldRecords(ctx, req.Days)
	failed := 0
	for _, table := range result.Tables {
		if table.Error != "" {
			failed++
		}
	}
	h.logInternalJob(ctx, "cleanup", req.DispatchID, failed)

	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeInternalJobRequest accepts an empty body as the zero request.
func decodeInternalJobRequest(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) logInternalJob(ctx context.Context, jobName, dispatchID string, failures int) {
	dispatchID = strings.TrimSpace(dispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(jobName, time.Now().UTC())
	}

	h.logger.InfoContext(ctx, "internal job completed",
		"job", jobName,
		"dispatch_id", dispatchID,
		"failures", failures,
	)
}

func buildManualDispatchID(jobName string, now time.Time) string {
	return fmt.Sprintf("manual-%s-%s", sanitizeDispatchPart(jobName), now.UTC().Format("20060102T150405"))
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}
