package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/predictions/today", handler.PredictToday)
	mux.HandleFunc("GET /v1/predictions/today/persisted", handler.PersistedToday)
	mux.HandleFunc("GET /v1/predictions/date/{date}", handler.PredictForDate)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/analysis/today", handler.AnalyzeToday)
	mux.HandleFunc("GET /v1/analysis/top-picks", handler.TopPicks)
	mux.HandleFunc("GET /v1/stats/database", handler.DatabaseStats)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, guard Middleware) {
	mux.Handle("POST /v1/internal/jobs/daily-run", guard(http.HandlerFunc(handler.RunDailyJob)))
	mux.Handle("POST /v1/internal/jobs/h2h", guard(http.HandlerFunc(handler.RunH2HJob)))
	mux.Handle("POST /v1/internal/jobs/cleanup", guard(http.HandlerFunc(handler.RunCleanupJob)))
}
