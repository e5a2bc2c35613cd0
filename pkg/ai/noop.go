package ai

import "context"

// NoopService leaves summaries empty. Useful when generation is disabled.
type NoopService struct{}

func NewNoopService() *NoopService { return &NoopService{} }

func (NoopService) Name() string { return string(ProviderNoop) }

func (NoopService) Summarize(ctx context.Context, title, text string) (string, error) {
	return "", nil
}
