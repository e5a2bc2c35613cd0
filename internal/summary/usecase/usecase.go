package usecase

import (
	"context"

	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
)

// SummaryUsecase defines the interface for summary business logic
type SummaryUsecase interface {
	// CreateSummary stores a new record with an empty summary and queues generation
	CreateSummary(ctx context.Context, payload dto.SummaryPayload) (uint, error)

	// GetSummary returns domain.ErrSummaryNotFound when the id is unknown
	GetSummary(ctx context.Context, id uint) (*domain.TextSummary, error)

	// GetAllSummaries returns every record ordered by id
	GetAllSummaries(ctx context.Context) ([]*domain.TextSummary, error)

	// UpdateSummary replaces url and summary and returns the stored record
	UpdateSummary(ctx context.Context, id uint, payload dto.SummaryUpdatePayload) (*domain.TextSummary, error)

	// DeleteSummary returns how many records were removed (0 or 1)
	DeleteSummary(ctx context.Context, id uint) (int64, error)

	// SearchSummaries ranks records against query by fuzzy relevance
	SearchSummaries(ctx context.Context, query string, limit int) ([]*domain.TextSummary, error)

	// ImportFeed creates a record for every item link of an RSS/Atom feed
	ImportFeed(ctx context.Context, req dto.FeedImportRequest) ([]uint, error)
}

// SummaryQueue accepts background summary jobs without blocking
type SummaryQueue interface {
	QueueJob(job SummaryJob) bool
}
