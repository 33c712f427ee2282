// Package observability starts and stops the process-wide telemetry:
// Uptrace traces and logs, Pyroscope profiles and the pprof endpoint.
package observability

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// Options select what a binary runs. Batch binaries usually leave
// Profiling off since they exit before a profile is uploaded.
type Options struct {
	Component string
	Profiling bool
}

// Telemetry owns everything Start brought up.
type Telemetry struct {
	logger   *logging.Logger
	stoppers []stopper
}

type stopper struct {
	name string
	stop func(context.Context) error
}

// Start brings up each enabled backend. On error the backends already
// started are stopped before returning.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", opts.Component)

	t := &Telemetry{logger: logger}
	t.add("uptrace", startUptrace(cfg, logger))

	if opts.Profiling {
		stop, err := startPyroscope(cfg, opts.Component, logger)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, err
		}
		t.add("pyroscope", stop)
		t.add("pprof", startPprof(cfg, logger))
	}

	return t, nil
}

func (t *Telemetry) add(name string, stop func(context.Context) error) {
	if stop != nil {
		t.stoppers = append(t.stoppers, stopper{name: name, stop: stop})
	}
}

// Shutdown stops backends in reverse start order and joins their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	for i := len(t.stoppers) - 1; i >= 0; i-- {
		s := t.stoppers[i]
		started := time.Now()
		if err := s.stop(ctx); err != nil {
			errs = append(errs, err)
			t.logger.ErrorContext(ctx, "telemetry stop failed", "backend", s.name, "error", err)
			continue
		}
		t.logger.DebugContext(ctx, "telemetry stopped", "backend", s.name, "duration_ms", time.Since(started).Milliseconds())
	}
	t.stoppers = nil
	return errors.Join(errs...)
}
