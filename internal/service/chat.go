package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gadgetbot/internal/model"
	"gadgetbot/internal/observability"

	"go.uber.org/zap"
)

// User-facing replies for generator problems
const (
	MissingCredentialMessage = "⚠️ Maaf, asisten AI belum dikonfigurasi di server (API key belum diset). Silakan coba lagi nanti."
	generatorErrorPrefix     = "⚠️ Maaf, terjadi kesalahan saat menghubungi AI: "
)

// Resolution is everything the pipeline derives before generation
type Resolution struct {
	Intent   model.Intent
	Facts    []model.Fact
	Selected []model.Fact
	Prompt   string
	Blocked  bool
}

// ChatService runs the fact-resolution pipeline and the generator
type ChatService struct {
	guard     *TopicGuard
	intent    *IntentExtractor
	catalog   *SpecCatalog
	market    *MarketIndex
	fusion    *FactFusion
	prompt    *PromptAssembler
	generator Generator
	logger    *zap.Logger
	metrics   *observability.Collector
}

// NewChatService creates a new chat service
func NewChatService(
	catalog *SpecCatalog,
	market *MarketIndex,
	prompt *PromptAssembler,
	generator Generator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		guard:     NewTopicGuard(),
		intent:    NewIntentExtractor(),
		catalog:   catalog,
		market:    market,
		fusion:    NewFactFusion(),
		prompt:    prompt,
		generator: generator,
		logger:    logger,
		metrics:   metrics,
	}
}

// Resolve turns an utterance into ranked facts and the generator prompt.
// Only a knowledge graph failure is returned as an error.
func (s *ChatService) Resolve(ctx context.Context, message string) (*Resolution, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if topic, blocked := s.guard.Blocked(message); blocked {
		s.logger.Info("blocked topic in message", zap.String("topic", topic))
		return &Resolution{
			Intent:   model.Intent{UseCaseTags: []string{}},
			Facts:    []model.Fact{},
			Selected: []model.Fact{},
			Blocked:  true,
		}, nil
	}

	start := time.Now()
	intent := s.intent.Extract(message)
	s.metrics.ObserveStage(observability.StageIntent, time.Since(start))

	start = time.Now()
	candidates, err := s.catalog.Query(ctx, intent.BrandName(), intent.MinRAM, intent.Flags.Concert)
	s.metrics.ObserveStage(observability.StageCatalog, time.Since(start))
	if err != nil {
		return nil, err
	}

	facts := []model.Fact{}
	if len(candidates) > 0 {
		start = time.Now()
		listings := s.market.Query(ctx, listingText(intent.BrandName()), intent.Budget)
		s.metrics.ObserveStage(observability.StageMarket, time.Since(start))

		start = time.Now()
		facts = s.fusion.Fuse(candidates, listings, intent)
		s.metrics.ObserveStage(observability.StageFusion, time.Since(start))
	}
	s.metrics.ObserveFacts(len(facts))

	start = time.Now()
	selected := s.prompt.Select(facts, message, s.prompt.MaxCount())
	prompt := s.prompt.Render(selected, intent.UseCaseTags)
	s.metrics.ObserveStage(observability.StagePrompt, time.Since(start))

	s.logger.Debug("facts resolved",
		zap.String("brand", intent.BrandName()),
		zap.Int("min_ram", intent.MinRAM),
		zap.Int64("budget", intent.Budget),
		zap.Int("candidates", len(candidates)),
		zap.Int("facts", len(facts)),
		zap.Int("selected", len(selected)),
	)

	return &Resolution{
		Intent:   intent,
		Facts:    facts,
		Selected: selected,
		Prompt:   prompt,
	}, nil
}

// Chat answers one message. Generator problems become reply text; only an
// empty message or an unavailable knowledge graph is returned as an error.
func (s *ChatService) Chat(ctx context.Context, message string) (*model.ChatResponse, error) {
	startTime := time.Now()

	res, err := s.Resolve(ctx, message)
	if err != nil {
		return nil, err
	}

	if res.Blocked {
		return &model.ChatResponse{
			Response:   SafeResponse,
			DebugFacts: res.Facts,
			Took:       time.Since(startTime).Milliseconds(),
		}, nil
	}

	start := time.Now()
	reply := s.generate(ctx, res.Prompt, message)
	s.metrics.ObserveStage(observability.StageGenerate, time.Since(start))

	intent := res.Intent
	return &model.ChatResponse{
		Response:   reply,
		DebugFacts: res.Facts,
		Intent:     &intent,
		Took:       time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *ChatService) generate(ctx context.Context, system, user string) string {
	if s.generator == nil {
		s.metrics.IncGeneratorFailure("missing_credential")
		return MissingCredentialMessage
	}

	reply, err := s.generator.Generate(ctx, system, user)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, ErrMissingCredential):
		s.metrics.IncGeneratorFailure("missing_credential")
		return MissingCredentialMessage
	default:
		s.logger.Error("generator failed", zap.Error(err))
		s.metrics.IncGeneratorFailure("failure")
		return generatorErrorPrefix + err.Error()
	}
}

// listingKeywords replaces brands that listing titles rarely spell out
var listingKeywords = map[string]string{
	"Apple":  "iphone",
	"Google": "pixel",
}

// listingText is the text filter sent to the market for a detected brand
func listingText(brand string) string {
	if kw, ok := listingKeywords[brand]; ok {
		return kw
	}
	return brand
}
