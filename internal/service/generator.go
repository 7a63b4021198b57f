package service

import (
	"context"
	"fmt"

	"gadgetbot/internal/config"

	"go.uber.org/zap"
)

// Generator turns a system instruction plus the user's message into reply text
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// missingCredentialGenerator fails every call without touching the network
type missingCredentialGenerator struct{}

func (missingCredentialGenerator) Generate(context.Context, string, string) (string, error) {
	return "", ErrMissingCredential
}

// NewGenerator builds the configured provider, wrapped in a circuit breaker
// when enabled. A missing key is not an error here; it surfaces per request.
func NewGenerator(ctx context.Context, cfg config.GeneratorConfig, breaker config.BreakerConfig, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.HasCredential() {
		logger.Warn("generator API key is not set, chat replies will be an apology",
			zap.String("provider", cfg.Provider))
		return missingCredentialGenerator{}, nil
	}

	var gen Generator
	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen = NewOpenAIClient(cfg)
	case config.ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}

	logger.Info("generator ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Bool("breaker", breaker.Enabled),
	)

	if breaker.Enabled {
		return NewBreakerGenerator(cfg.Provider, gen, breaker, logger), nil
	}
	return gen, nil
}
