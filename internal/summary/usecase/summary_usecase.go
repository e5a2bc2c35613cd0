package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/pkg/feed"
	"summarizer-backend/pkg/fuzzy"
	"summarizer-backend/pkg/metrics"
)

const (
	defaultSearchLimit = 20
	defaultImportLimit = 20
)

// summaryUsecase implements SummaryUsecase interface
type summaryUsecase struct {
	summaryRepo repository.SummaryRepository
	queue       SummaryQueue
	feedReader  feed.Reader
	logger      *zap.SugaredLogger
}

// NewSummaryUsecase creates a new instance of summaryUsecase.
// queue and feedReader may be nil, which disables background generation and feed import.
func NewSummaryUsecase(
	summaryRepo repository.SummaryRepository,
	queue SummaryQueue,
	feedReader feed.Reader,
	logger *zap.SugaredLogger,
) SummaryUsecase {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &summaryUsecase{
		summaryRepo: summaryRepo,
		queue:       queue,
		feedReader:  feedReader,
		logger:      logger,
	}
}

func (u *summaryUsecase) CreateSummary(ctx context.Context, payload dto.SummaryPayload) (uint, error) {
	summary := &domain.TextSummary{URL: payload.URL}
	if err := u.summaryRepo.Create(ctx, summary); err != nil {
		return 0, fmt.Errorf("failed to create summary: %w", err)
	}
	metrics.SummariesCreatedTotal.Inc()

	if u.queue != nil && !u.queue.QueueJob(SummaryJob{ID: summary.ID, URL: summary.URL}) {
		// The pending scheduler picks it up later
		u.logger.Warnw("summary queue full, deferring generation", "id", summary.ID)
	}

	return summary.ID, nil
}

func (u *summaryUsecase) GetSummary(ctx context.Context, id uint) (*domain.TextSummary, error) {
	return u.summaryRepo.FindByID(ctx, id)
}

func (u *summaryUsecase) GetAllSummaries(ctx context.Context) ([]*domain.TextSummary, error) {
	return u.summaryRepo.FindAll(ctx)
}

func (u *summaryUsecase) UpdateSummary(ctx context.Context, id uint, payload dto.SummaryUpdatePayload) (*domain.TextSummary, error) {
	text := ""
	if payload.Summary != nil {
		text = *payload.Summary
	}
	updated, err := u.summaryRepo.Update(ctx, id, payload.URL, text)
	if err != nil {
		return nil, err
	}

	// A cleared summary is pending again, under the possibly new URL
	if updated.IsPending() && u.queue != nil && !u.queue.QueueJob(SummaryJob{ID: updated.ID, URL: updated.URL}) {
		u.logger.Warnw("summary queue full, deferring generation", "id", updated.ID)
	}
	return updated, nil
}

func (u *summaryUsecase) DeleteSummary(ctx context.Context, id uint) (int64, error) {
	return u.summaryRepo.Delete(ctx, id)
}

func (u *summaryUsecase) SearchSummaries(ctx context.Context, query string, limit int) ([]*domain.TextSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.TextSummary{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	all, err := u.summaryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		summary *domain.TextSummary
		score   float64
	}
	var hits []scored
	for _, s := range all {
		if score := fuzzy.RelevanceScore(query, s.URL, s.Summary); score > 0 {
			hits = append(hits, scored{summary: s, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].summary.ID < hits[j].summary.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]*domain.TextSummary, len(hits))
	for i, h := range hits {
		results[i] = h.summary
	}
	return results, nil
}

func (u *summaryUsecase) ImportFeed(ctx context.Context, req dto.FeedImportRequest) ([]uint, error) {
	if u.feedReader == nil {
		return nil, errors.New("feed import is not configured")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultImportLimit
	}

	entries, err := u.feedReader.Fetch(ctx, req.FeedURL, limit)
	if err != nil {
		u.logger.Warnw("feed fetch failed", "feed_url", req.FeedURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		id, err := u.CreateSummary(ctx, dto.SummaryPayload{URL: entry.Link})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
		u.logger.Debugw("feed entry queued", "id", id, "title", entry.Title, "published", entry.Published)
	}

	u.logger.Infow("feed imported", "feed_url", req.FeedURL, "count", len(ids))
	return ids, nil
}
