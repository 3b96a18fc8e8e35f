// Package resilience composes circuit breaking, retry with exponential
// backoff and rate limiting around a single operation against the weather
// provider. Each configured operation owns its own independent policy state.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/circuitbreaker"
)

// Config defines the policy parameters for one named operation.
// All values are explicit; there is no ambient lookup by name.
type Config struct {
	// Operation names the protected call, e.g. "current-weather"
	Operation string

	// MaxRetries is the number of additional attempts after the first
	MaxRetries uint64

	// InitialBackoff is the first retry delay; subsequent delays grow
	// exponentially up to MaxBackoff
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Rate and Burst bound the outbound call rate
	Rate  rate.Limit
	Burst int

	// RateWait is the longest a call waits for a permit before failing
	// with a rate-limit error
	RateWait time.Duration

	// Breaker configures the circuit breaker for this operation
	Breaker circuitbreaker.Config
}

// Policy wraps calls for one operation with rate limiting, circuit breaking
// and retry. Its internal counters are the only mutable state shared across
// concurrent callers and are synchronized internally.
type Policy struct {
	operation string
	retries   uint64
	initial   time.Duration
	maxDelay  time.Duration
	limiter   *rate.Limiter
	rateWait  time.Duration
	breaker   *circuitbreaker.CircuitBreakerWrapper
	logger    *zap.Logger
}

// NewPolicy creates a policy from an explicit configuration.
//
// Parameters:
//   - cfg: Policy parameters for this operation
//   - logger: Zap logger for policy decisions
//
// Returns:
//   - *Policy: Configured policy instance
func NewPolicy(cfg Config, logger *zap.Logger) *Policy {
	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = cfg.Operation
	}

	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}

	maxDelay := cfg.MaxBackoff
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}

	rateWait := cfg.RateWait
	if rateWait <= 0 {
		rateWait = time.Second
	}

	limit := cfg.Rate
	if limit <= 0 {
		limit = rate.Inf
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Policy{
		operation: cfg.Operation,
		retries:   cfg.MaxRetries,
		initial:   initial,
		maxDelay:  maxDelay,
		limiter:   rate.NewLimiter(limit, burst),
		rateWait:  rateWait,
		breaker:   circuitbreaker.NewCircuitBreaker(breakerCfg, logger),
		logger:    logger,
	}
}

// Execute runs fn under the full policy stack. The subject names what is
// being fetched and only appears in errors and logs.
//
// Ordering: a rate-limit permit is acquired first. A call that cannot get
// one within the wait window fails immediately with a rate-limit error.
// Each attempt then runs through the circuit breaker; an open breaker
// short-circuits straight to the fallback error without touching the
// network. Transient failures are retried with exponential backoff up to
// the configured attempt budget; non-transient failures propagate as-is.
// When the budget is exhausted or the breaker is open, the result is a
// synthesized service-unavailable error naming the operation and subject,
// never a partially valid response.
func (p *Policy) Execute(ctx context.Context, subject string, fn func(context.Context) error) error {
	if err := p.acquirePermit(ctx); err != nil {
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(p.newBackoff(), p.retries), ctx)

	var lastErr error

	err := backoff.Retry(func() error {
		attemptErr := p.breaker.Execute(ctx, p.operation, func() error {
			return fn(ctx)
		})

		if attemptErr == nil {
			return nil
		}

		lastErr = attemptErr

		if errors.Is(attemptErr, gobreaker.ErrOpenState) ||
			errors.Is(attemptErr, gobreaker.ErrTooManyRequests) {
			// Breaker is open; further attempts would not reach the network.
			return backoff.Permanent(attemptErr)
		}

		if !IsTransient(attemptErr) {
			return backoff.Permanent(attemptErr)
		}

		p.logger.Warn("retrying transient provider failure",
			zap.String("operation", p.operation),
			zap.String("subject", subject),
			zap.Error(attemptErr))

		return attemptErr
	}, policy)

	if err == nil {
		return nil
	}

	return p.fallback(subject, lastErr)
}

// acquirePermit waits up to rateWait for a limiter token.
func (p *Policy) acquirePermit(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.rateWait)
	defer cancel()

	if err := p.limiter.Wait(waitCtx); err != nil {
		p.logger.Warn("outbound rate limit exceeded",
			zap.String("operation", p.operation))

		return &domain.DomainError{
			Code:    domain.ErrCodeRateLimited,
			Message: "outbound rate limit exceeded for " + p.operation,
			Cause:   err,
		}
	}

	return nil
}

// fallback maps an exhausted or short-circuited call to its client-facing
// error. Validated-bad-input failures surface unchanged; everything else
// becomes a service-unavailable error naming the operation and subject.
func (p *Policy) fallback(subject string, lastErr error) error {
	if domain.IsCode(lastErr, domain.ErrCodeInvalidRequest) ||
		domain.IsCode(lastErr, domain.ErrCodeValidation) {
		return lastErr
	}

	p.logger.Error("provider call exhausted resilience policy",
		zap.String("operation", p.operation),
		zap.String("subject", subject),
		zap.Error(lastErr))

	return &domain.DomainError{
		Code:    domain.ErrCodeServiceUnavailable,
		Message: "weather provider unavailable for " + p.operation + " of " + subject,
		Cause:   lastErr,
	}
}

// newBackoff builds the exponential schedule for one call.
func (p *Policy) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initial
	b.MaxInterval = p.maxDelay
	b.MaxElapsedTime = 0

	return b
}

// BreakerStats exposes the underlying breaker counters for the stats endpoint.
func (p *Policy) BreakerStats() map[string]interface{} {
	return p.breaker.Stats()
}

// Operation returns the configured operation name.
func (p *Policy) Operation() string {
	return p.operation
}

// IsTransient reports whether err belongs to the retryable failure classes:
// upstream server errors, empty bodies on success, and transport failures.
func IsTransient(err error) bool {
	return domain.IsCode(err, domain.ErrCodeUpstreamServer) ||
		domain.IsCode(err, domain.ErrCodeEmptyResponse)
}
