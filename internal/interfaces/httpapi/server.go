package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// RouterConfig carries the HTTP concerns that come from configuration.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPredictionRoutes(mux, handler)
	registerAnalysisRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, RequireInternalJobToken(cfg.InternalJobToken))

	return chain(mux,
		RequestTracing,
		RequestID,
		RequestLogging(logger),
		CORS(cfg.CORSAllowedOrigins),
		Recover(logger),
	)
}
