package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// FallbackService routes summarization to a primary provider and
// falls back to a secondary one when the primary fails
type FallbackService struct {
	primary   SummarizerService
	secondary SummarizerService
	logger    *zap.SugaredLogger
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(primary, secondary SummarizerService, logger *zap.SugaredLogger) *FallbackService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *FallbackService) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return containsAny(err.Error(),
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	)
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	return containsAny(err.Error(),
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"RESOURCE_EXHAUSTED",
		"ThrottlingException",
	)
}

func containsAny(s string, indicators ...string) bool {
	s = strings.ToLower(s)
	for _, indicator := range indicators {
		if strings.Contains(s, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}

// Summarize tries the primary provider first, then the secondary
func (f *FallbackService) Summarize(ctx context.Context, title, text string) (string, error) {
	result, err := f.primary.Summarize(ctx, title, text)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrEmptyInput) || ctx.Err() != nil {
		return "", err
	}

	switch {
	case isConnectionError(err):
		f.logger.Warnw("primary summarizer unreachable, falling back",
			"primary", f.primary.Name(), "secondary", f.secondary.Name(), "error", err)
	case isQuotaError(err):
		f.logger.Warnw("primary summarizer quota exhausted, falling back",
			"primary", f.primary.Name(), "secondary", f.secondary.Name(), "error", err)
	default:
		f.logger.Errorw("primary summarizer failed, falling back",
			"primary", f.primary.Name(), "secondary", f.secondary.Name(), "error", err)
	}

	result, secondaryErr := f.secondary.Summarize(ctx, title, text)
	if secondaryErr != nil {
		return "", fmt.Errorf("%s summarization failed: %w (primary %s: %v)",
			f.secondary.Name(), secondaryErr, f.primary.Name(), err)
	}
	return result, nil
}
