package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/kirikab-27/courselab/internal/domain"
)

// ResilientSimulator wraps an execution backend with resilience patterns
// from fortify
type ResilientSimulator struct {
	backend        Simulator
	circuitBreaker circuitbreaker.CircuitBreaker[*domain.ExecutionResult]
	retrier        retry.Retry[*domain.ExecutionResult]
	bulkhead       bulkhead.Bulkhead[*domain.ExecutionResult]
	rateLimit      ratelimit.RateLimiter
	logger         *slog.Logger
	name           string
}

// ResilientConfig holds configuration for the resilience wrapper
type ResilientConfig struct {
	// EnableCircuitBreaker stops calling a repeatedly failing service
	EnableCircuitBreaker bool

	// EnableRetry enables retry with backoff
	EnableRetry bool

	// EnableBulkhead limits concurrent in-flight executions
	EnableBulkhead bool

	// EnableRateLimit bounds the execution request rate
	EnableRateLimit bool

	// MaxConcurrent for bulkhead (default: 4)
	MaxConcurrent int

	// RatePerSecond for rate limiting (default: 5)
	RatePerSecond int

	// Logger for resilience events
	Logger *slog.Logger
}

// DefaultResilientConfig returns sensible defaults for execution calls
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		EnableCircuitBreaker: true,
		EnableRetry:          true,
		EnableBulkhead:       true,
		EnableRateLimit:      true,
		MaxConcurrent:        4,
		RatePerSecond:        5,
	}
}

// NewResilientSimulator wraps a backend with resilience patterns using fortify
func NewResilientSimulator(backend Simulator, cfg ResilientConfig) *ResilientSimulator {
	rs := &ResilientSimulator{
		backend: backend,
		logger:  cfg.Logger,
		name:    backend.Name(),
	}

	// Configure circuit breaker
	if cfg.EnableCircuitBreaker {
		rs.circuitBreaker = circuitbreaker.New[*domain.ExecutionResult](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if rs.logger != nil {
					rs.logger.Warn("execution circuit breaker state change",
						"backend", backend.Name(),
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	// Configure retry
	if cfg.EnableRetry {
		rs.retrier = retry.New[*domain.ExecutionResult](retry.Config{
			MaxAttempts:   3,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      10 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable: func(err error) bool {
				return isRetryableHTTPError(err)
			},
		})
	}

	// Configure bulkhead
	if cfg.EnableBulkhead {
		maxConcurrent := cfg.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 4
		}
		rs.bulkhead = bulkhead.New[*domain.ExecutionResult](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 2,
			QueueTimeout:  10 * time.Second,
		})
	}

	// Configure rate limiter
	if cfg.EnableRateLimit {
		rate := cfg.RatePerSecond
		if rate <= 0 {
			rate = 5
		}
		rs.rateLimit = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    rate * 3,
			Interval: time.Second,
		})
	}

	return rs
}

func (s *ResilientSimulator) Name() string {
	return s.backend.Name()
}

func (s *ResilientSimulator) Execute(ctx context.Context, req *Request) (*domain.ExecutionResult, error) {
	// Apply rate limiting
	if s.rateLimit != nil {
		if !s.rateLimit.Allow(ctx, s.name) {
			return nil, fmt.Errorf("rate limit exceeded for execution backend %s", s.name)
		}
	}

	// Define the core operation
	operation := func(ctx context.Context) (*domain.ExecutionResult, error) {
		return s.backend.Execute(ctx, req)
	}

	// Apply bulkhead if enabled
	if s.bulkhead != nil {
		operation = func(ctx context.Context) (*domain.ExecutionResult, error) {
			return s.bulkhead.Execute(ctx, func(ctx context.Context) (*domain.ExecutionResult, error) {
				return s.backend.Execute(ctx, req)
			})
		}
	}

	// Apply circuit breaker + retry
	if s.circuitBreaker != nil && s.retrier != nil {
		return s.circuitBreaker.Execute(ctx, func(ctx context.Context) (*domain.ExecutionResult, error) {
			return s.retrier.Do(ctx, operation)
		})
	}

	if s.circuitBreaker != nil {
		return s.circuitBreaker.Execute(ctx, operation)
	}

	if s.retrier != nil {
		return s.retrier.Do(ctx, operation)
	}

	return operation(ctx)
}

// Close releases resources held by the resilience wrapper
func (s *ResilientSimulator) Close() error {
	if s.rateLimit != nil {
		return s.rateLimit.Close()
	}
	return nil
}

// isRetryableHTTPError checks if an error is retryable based on HTTP semantics
func isRetryableHTTPError(err error) bool {
	if err == nil {
		return false
	}

	code := extractStatusCode(err)
	retryableCodes := []int{
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout,      // 504
	}

	for _, rc := range retryableCodes {
		if code == rc {
			return true
		}
	}

	return false
}

// extractStatusCode tries to extract an HTTP status code from an error message
func extractStatusCode(err error) int {
	if err == nil {
		return 0
	}

	errStr := err.Error()

	statusCodes := map[string]int{
		"status 429": http.StatusTooManyRequests,
		"status 500": http.StatusInternalServerError,
		"status 502": http.StatusBadGateway,
		"status 503": http.StatusServiceUnavailable,
		"status 504": http.StatusGatewayTimeout,
	}

	for pattern, code := range statusCodes {
		if containsString(errStr, pattern) {
			return code
		}
	}

	return 0
}

func containsString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
