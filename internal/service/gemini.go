package service

import (
	"context"
	"fmt"

	"gadgetbot/internal/config"

	"google.golang.org/genai"
)

// GeminiClient generates replies with the Gemini API
type GeminiClient struct {
	client *genai.Client
	config config.GeneratorConfig
}

// NewGeminiClient creates a Gemini generator. The key must be set.
func NewGeminiClient(ctx context.Context, cfg config.GeneratorConfig) (*GeminiClient, error) {
	if !cfg.HasCredential() {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, config: cfg}, nil
}

// Generate sends the system instruction and user message and returns the reply text
func (c *GeminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.config.Temperature)),
	}
	if c.config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(c.config.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(user), genConfig)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrGeneratorFailure, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", ErrGeneratorFailure)
	}
	return text, nil
}
