package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/football-predictions/internal/app"
	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/observability"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

const runTimeout = 30 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Start(context.Background(), cfg, logger, observability.Options{Component: "dailyrun"})
	if err != nil {
		logger.Error("start telemetry", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("build container", "error", err)
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error("close storage failed", "error", err)
		}
	}()

	result := container.DailyRun.Run(ctx)

	payload, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode run result", "error", err)
		return 1
	}
	fmt.Println(string(payload))

	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}
