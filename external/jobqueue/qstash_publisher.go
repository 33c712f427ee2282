// Package jobqueue schedules delayed calls to the internal job routes through
// Upstash QStash.
package jobqueue

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
	"github.com/riskibarqy/football-predictions/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPublishTimeout = 10 * time.Second
	maxErrorBodyBytes     = 4096
)

// errTransient marks failures that count against the circuit: transport
// errors, timeouts, throttling and 5xx. A 4xx means our request was wrong.
var errTransient = crerr.New("qstash transient failure")

var _ usecase.JobQueue = (*QStashPublisher)(nil)

type QStashPublisherConfig struct {
	HTTPClient       *http.Client
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

type QStashPublisher struct {
	client  *http.Client
	cfg     QStashPublisherConfig
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPublishTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.InternalJobToken = strings.TrimSpace(cfg.InternalJobToken)

	return &QStashPublisher{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		breaker: resilience.NewCircuitBreaker("qstash", cfg.CircuitBreaker, resilience.LogStateChanges(logger)),
	}
}

// Enqueue asks QStash to POST payload to path on this service after delay.
// An open circuit is reported as usecase.ErrDependencyUnavailable.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	job, err := p.newPublishJob(path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}

	preview := job.curlPreview()
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", job.targetURL),
			attribute.String("qstash.deduplication_id", job.dedupID),
			attribute.String("qstash.request_curl_preview", preview),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", job.path, "curl_preview", preview)

	err = p.breaker.Execute(func() error { return p.send(ctx, job) }, func(err error) bool {
		return stderrors.Is(err, errTransient)
	})
	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "path", job.path, "state", string(p.breaker.State()))
		return fmt.Errorf("%w: qstash is temporarily unavailable: %v", usecase.ErrDependencyUnavailable, err)
	case err != nil:
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", job.path, "delay", job.delay, "deduplication_id", job.dedupID)
	return nil
}

func (p *QStashPublisher) send(ctx context.Context, job publishJob) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.publishURL, bytes.NewReader(job.body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	for key, value := range job.headers(p.cfg.Token, p.cfg.InternalJobToken) {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish target_url=%s: %v", errTransient, job.targetURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	callErr := crerr.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, job.targetURL, strings.TrimSpace(string(raw)))
	if retryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %v", errTransient, callErr)
	}
	return callErr
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// httpBaseURL accepts an absolute http(s) URL and strips trailing slashes.
func httpBaseURL(raw string) (string, error) {
	candidate := strings.TrimRight(strings.TrimSpace(raw), "/")
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme %q", candidate, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", crerr.Newf("%q has no host", candidate)
	}
	return candidate, nil
}
