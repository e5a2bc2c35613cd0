package repository

import (
	"context"
	"time"

	"summarizer-backend/internal/summary/domain"
)

// SummaryRepository is the storage collaborator behind the summary facade
type SummaryRepository interface {
	// Create persists a new record and fills in its ID and CreatedAt
	Create(ctx context.Context, summary *domain.TextSummary) error

	// FindByID returns domain.ErrSummaryNotFound when no record matches
	FindByID(ctx context.Context, id uint) (*domain.TextSummary, error)

	// FindAll returns every record ordered by ID
	FindAll(ctx context.Context) ([]*domain.TextSummary, error)

	// Update replaces url and summary and returns the re-fetched record.
	// Returns domain.ErrSummaryNotFound when no record matches.
	Update(ctx context.Context, id uint, url, summary string) (*domain.TextSummary, error)

	// UpdateSummaryText stores a generated summary, but only while the record
	// still has the given url and an empty summary. Reports false otherwise
	// (deleted, edited, or already summarized).
	UpdateSummaryText(ctx context.Context, id uint, url, summary string) (bool, error)

	// Delete removes the record and returns the number of rows removed
	Delete(ctx context.Context, id uint) (int64, error)

	// FindPending returns records with an empty summary that were created and
	// last attempted before staleBefore, fewest attempts first.
	// maxAttempts <= 0 means no cap.
	FindPending(ctx context.Context, staleBefore time.Time, maxAttempts, limit int) ([]*domain.TextSummary, error)

	// MarkAttempted bumps the attempt counter and records when it was re-queued
	MarkAttempted(ctx context.Context, id uint, at time.Time) error
}
