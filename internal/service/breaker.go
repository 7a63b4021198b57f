package service

import (
	"context"
	"errors"
	"fmt"

	"gadgetbot/internal/config"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerGenerator stops calling a failing generator for a while instead of
// stacking up slow timeouts. It never retries.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps next with a circuit breaker
func NewBreakerGenerator(name string, next Generator, cfg config.BreakerConfig, logger *zap.Logger) *BreakerGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("generator circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// a missing key is a config problem, not an upstream failure
			return err == nil || errors.Is(err, ErrMissingCredential) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerGenerator{next: next, cb: cb}
}

// Generate calls the wrapped generator unless the breaker is open
func (b *BreakerGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Generate(ctx, system, user)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrGeneratorFailure, err)
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state for diagnostics
func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}
