package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType
	Fallback ProviderType // optional secondary provider

	Sentences         int
	MaxInputChars     int
	MaxTokens         int
	SystemInstruction string

	// Ollama config, read on every call so runtime settings apply
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// Bedrock config
	BedrockRegion string
	BedrockModel  string
	BedrockAPIKey string
}

// NewSummarizerService creates a SummarizerService based on the config
// Switch AI provider by changing cfg.Provider; set cfg.Fallback to chain a second one
func NewSummarizerService(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (SummarizerService, error) {
	primary, err := newProvider(ctx, cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Fallback == "" || string(cfg.Fallback) == primary.Name() {
		return primary, nil
	}

	secondary, err := newProvider(ctx, cfg.Fallback, cfg)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewFallbackService(primary, secondary, logger), nil
}

func newProvider(ctx context.Context, provider ProviderType, cfg Config) (SummarizerService, error) {
	switch provider {
	case ProviderExtractive, "":
		return NewExtractiveService(cfg.Sentences, cfg.MaxInputChars), nil

	case ProviderOllama:
		if cfg.GetOllamaBaseURL == nil || cfg.GetOllamaModel == nil {
			return nil, fmt.Errorf("ollama base URL and model getters are required")
		}
		return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel).
			WithLimits(cfg.SystemInstruction, cfg.MaxInputChars, cfg.MaxTokens), nil

	case ProviderGemini:
		return NewGeminiService(ctx, cfg)

	case ProviderBedrock:
		return NewBedrockService(ctx, cfg)

	case ProviderNoop:
		return NewNoopService(), nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
