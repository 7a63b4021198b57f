package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gadgetbot/internal/config"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGenerator_MissingCredential(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.GeneratorConfig{Provider: config.ProviderGemini}, config.BreakerConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "s", "u")
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestNewGenerator_Providers(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.GeneratorConfig{Provider: config.ProviderOpenAI, APIKey: "k"}, config.BreakerConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, gen)

	gen, err = NewGenerator(context.Background(), config.GeneratorConfig{Provider: config.ProviderOpenAI, APIKey: "k"}, config.BreakerConfig{Enabled: true}, nil)
	require.NoError(t, err)
	assert.IsType(t, &BreakerGenerator{}, gen)

	_, err = NewGenerator(context.Background(), config.GeneratorConfig{Provider: "smoke-signals", APIKey: "k"}, config.BreakerConfig{}, nil)
	assert.Error(t, err)
}

func TestBreakerGenerator_OpensAfterFailures(t *testing.T) {
	inner := &fakeGenerator{err: errors.New("upstream 500")}
	gen := NewBreakerGenerator("test", inner, config.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := gen.Generate(context.Background(), "s", "u")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, gen.State())

	_, err := gen.Generate(context.Background(), "s", "u")
	assert.True(t, errors.Is(err, ErrGeneratorFailure))
	assert.Equal(t, 2, inner.calls)
}

func TestBreakerGenerator_MissingCredentialDoesNotTrip(t *testing.T) {
	inner := &fakeGenerator{err: ErrMissingCredential}
	gen := NewBreakerGenerator("test", inner, config.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	}, nil)

	for i := 0; i < 5; i++ {
		_, err := gen.Generate(context.Background(), "s", "u")
		assert.True(t, errors.Is(err, ErrMissingCredential))
	}
	assert.Equal(t, gobreaker.StateClosed, gen.State())
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerGenerator_PassesReply(t *testing.T) {
	gen := NewBreakerGenerator("test", &fakeGenerator{reply: "halo"}, config.BreakerConfig{MinRequests: 1, FailureThreshold: 1}, nil)

	reply, err := gen.Generate(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "halo", reply)
}
