package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiService implements SummarizerService with the Gemini API
type GeminiService struct {
	client            *genai.Client
	model             string
	systemInstruction string
	maxInputChars     int
	maxTokens         int32
}

// NewGeminiService creates a Gemini client for the given API key
func NewGeminiService(ctx context.Context, cfg Config) (*GeminiService, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	systemInstruction := cfg.SystemInstruction
	if systemInstruction == "" {
		systemInstruction = DefaultSystemInstruction
	}
	maxTokens := int32(512)
	if cfg.MaxTokens > 0 {
		maxTokens = int32(cfg.MaxTokens)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:            client,
		model:             model,
		systemInstruction: systemInstruction,
		maxInputChars:     cfg.MaxInputChars,
		maxTokens:         maxTokens,
	}, nil
}

func (g *GeminiService) Name() string { return string(ProviderGemini) }

func (g *GeminiService) Summarize(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	prompt := buildUserPrompt(title, truncate(text, g.maxInputChars))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("no summary returned from Gemini API")
	}
	return summary, nil
}

func (g *GeminiService) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.systemInstruction, genai.RoleUser),
		MaxOutputTokens:   g.maxTokens,
		Temperature:       genai.Ptr[float32](0.3),
	}
}
