package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// NewHTTPServer wires the container behind the HTTP router. The returned
// close func releases the storage handles and must run after Shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		container.Predictions,
		container.Analysis,
		container.Cleanup,
		container.H2H,
		container.DailyRun,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = container.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, container.Close, nil
}
