package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when there is no text to summarize
var ErrEmptyInput = errors.New("nothing to summarize")

// SummarizerService is the interface for article summarization
// Implement this interface to add new AI providers (Gemini, Ollama, Bedrock, etc.)
type SummarizerService interface {
	Summarize(ctx context.Context, title, text string) (string, error)
	Name() string
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderExtractive ProviderType = "extractive"
	ProviderOllama     ProviderType = "ollama"
	ProviderGemini     ProviderType = "gemini"
	ProviderBedrock    ProviderType = "bedrock"
	ProviderNoop       ProviderType = "noop"
)

// DefaultSystemInstruction is the prompt used when none is configured
const DefaultSystemInstruction = `You are an expert at summarizing articles.
Summarize the article below concisely.
- Use 3 to 5 sentences
- Keep the most important facts
- Answer in the language of the article
- Output only the summary, no preamble`

// buildUserPrompt formats the article for LLM providers
func buildUserPrompt(title, text string) string {
	if title == "" {
		return fmt.Sprintf("Article:\n%s", text)
	}
	return fmt.Sprintf("Title: %s\n\nArticle:\n%s", title, text)
}

// truncate cuts text to at most max runes, appending "..." when it had to cut
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
