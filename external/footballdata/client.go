package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

const (
	defaultBaseURL        = "https://api.football-data.org/v4"
	defaultTimeout        = 15 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 2 * time.Second
	maxResponseBytes      = 6 << 20

	headerAuthToken         = "X-Auth-Token"
	headerRequestsAvailable = "X-Requests-Available-Minute"
	headerCounterReset      = "X-RequestCounter-Reset"
)

var (
	_ usecase.FootballDataProvider = (*Client)(nil)
	_ usecase.TeamHistoryProvider  = (*Client)(nil)
)

var authTokenParamRegex = regexp.MustCompile(`(?i)(auth[_-]?token=)[^&\s"']+`)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	Sleep          SleepFunc
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
	sleep          SleepFunc
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	flight         resilience.Group[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	retryBase := cfg.RetryBaseDelay
	if retryBase <= 0 {
		retryBase = defaultRetryBaseDelay
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBase,
		sleep:          sleep,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker("football-data", cfg.CircuitBreaker, resilience.LogStateChanges(logger)),
	}
}

// GetJSON fetches path with the given query and decodes the body into target.
// Failures are *ExternalServiceError, except a rejected call on an open circuit
// which wraps usecase.ErrDependencyUnavailable.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, target any) error {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, _, err := c.flight.Do(fullURL, func() ([]byte, error) {
		var raw []byte
		breakerErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		if stderrors.Is(breakerErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", string(c.breaker.State()))
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, breakerErr
	})
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return newExternalError(KindOther, http.StatusOK, fullURL, crerr.Wrap(err, "decode provider payload"))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == c.maxRetries {
			break
		}

		backoff := c.retryBaseDelay * time.Duration(1<<attempt)
		c.logger.WarnContext(ctx, "football-data request retrying",
			"url", fullURL,
			"attempt", attempt+1,
			"backoff", backoff.String(),
			"error", err,
		)
		if sleepErr := c.sleep(ctx, backoff); sleepErr != nil {
			return nil, newExternalError(KindTimeout, 0, fullURL, crerr.Wrap(sleepErr, "retry backoff interrupted"))
		}
	}

	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, newExternalError(KindOther, 0, fullURL, crerr.Wrap(err, "build request"))
	}
	req.Header.Set("accept", "application/json")
	if c.token != "" {
		req.Header.Set(headerAuthToken, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		text := sanitizeSensitiveText(err.Error(), c.token)
		if isTimeoutError(err) && ctx.Err() == nil {
			return nil, newExternalError(KindTimeout, 0, fullURL, fmt.Errorf("%w: send request: %s", errTransient, text))
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, newExternalError(KindTimeout, 0, fullURL, crerr.Wrap(ctxErr, "request cancelled"))
		}
		return nil, newExternalError(KindOther, 0, fullURL, crerr.Newf("send request: %s", text))
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		if isTimeoutError(readErr) {
			return nil, newExternalError(KindTimeout, resp.StatusCode, fullURL, fmt.Errorf("%w: read response body: %v", errTransient, readErr))
		}
		return nil, newExternalError(KindOther, resp.StatusCode, fullURL, crerr.Wrap(readErr, "read response body"))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.InfoContext(ctx, "football-data request completed",
			"url", fullURL,
			"requests_available_minute", resp.Header.Get(headerRequestsAvailable),
			"request_counter_reset", resp.Header.Get(headerCounterReset),
		)
		return raw, nil
	}

	kind := kindFromStatus(resp.StatusCode)
	body := sanitizeSensitiveText(abbreviateBody(raw), c.token)
	if kind == KindRateLimited || kind == KindTimeout {
		return nil, newExternalError(kind, resp.StatusCode, fullURL, fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, body))
	}
	return nil, newExternalError(kind, resp.StatusCode, fullURL, crerr.Newf("provider status=%d body=%s", resp.StatusCode, body))
}

// retryable is true only for rate limiting and timeouts; every other failure
// surfaces immediately.
func retryable(err error) bool {
	target, ok := AsExternalServiceError(err)
	if !ok {
		return false
	}
	return target.Kind == KindRateLimited || (target.Kind == KindTimeout && stderrors.Is(err, errTransient))
}

func isTimeoutError(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return authTokenParamRegex.ReplaceAllString(value, "${1}REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
