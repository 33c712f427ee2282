package resilience

import (
	"time"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// CircuitBreakerConfig is shared by every outbound dependency. A disabled
// config still yields a usable breaker that lets every call through.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// StateChangeFunc observes breaker transitions, usually to log them.
type StateChangeFunc func(name string, from, to CircuitState)

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

func (cfg CircuitBreakerConfig) normalized() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// LogStateChanges reports every transition at warn level, except recovery.
func LogStateChanges(logger *logging.Logger) StateChangeFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(name string, from, to CircuitState) {
		if to == CircuitStateClosed {
			logger.Info("circuit breaker closed", "dependency", name, "from", string(from))
			return
		}
		logger.Warn("circuit breaker state changed", "dependency", name, "from", string(from), "to", string(to))
	}
}
