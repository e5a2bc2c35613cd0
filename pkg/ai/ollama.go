package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaService implements SummarizerService using Ollama local LLM
type OllamaService struct {
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model

	systemInstruction string
	maxInputChars     int
	maxTokens         int
	httpClient        *http.Client
}

// NewOllamaServiceWithGetters creates a new Ollama service with dynamic getters
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string) *OllamaService {
	return &OllamaService{
		getBaseURL:        getBaseURL,
		getModel:          getModel,
		systemInstruction: DefaultSystemInstruction,
		maxTokens:         512,
		httpClient:        &http.Client{},
	}
}

// NewOllamaClient builds an API client for baseURL, e.g. http://localhost:11434
func NewOllamaClient(baseURL string, httpClient *http.Client) (*api.Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama base url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return api.NewClient(base, httpClient), nil
}

// WithLimits sets the prompt, input truncation and output token limits
func (o *OllamaService) WithLimits(systemInstruction string, maxInputChars, maxTokens int) *OllamaService {
	if systemInstruction != "" {
		o.systemInstruction = systemInstruction
	}
	o.maxInputChars = maxInputChars
	if maxTokens > 0 {
		o.maxTokens = maxTokens
	}
	return o
}

func (o *OllamaService) Name() string { return string(ProviderOllama) }

// Summarize implements SummarizerService
func (o *OllamaService) Summarize(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	// Resolved per call so runtime settings changes apply to the next job
	client, err := NewOllamaClient(o.getBaseURL(), o.httpClient)
	if err != nil {
		return "", err
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  o.getModel(),
		System: o.systemInstruction,
		Prompt: buildUserPrompt(title, truncate(text, o.maxInputChars)),
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0.3,
			"num_predict": o.maxTokens,
		},
	}

	var out strings.Builder
	err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}

	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", fmt.Errorf("empty summary in ollama response")
	}
	return summary, nil
}
