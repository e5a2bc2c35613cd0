package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"summarizer-backend/internal/summary/domain"
)

// memorySummaryRepository keeps records in a map; used with database.driver=memory and in tests
type memorySummaryRepository struct {
	mu        sync.RWMutex
	nextID    uint
	summaries map[uint]domain.TextSummary
	now       func() time.Time
}

// NewMemorySummaryRepository creates an empty in-memory SummaryRepository
func NewMemorySummaryRepository() SummaryRepository {
	return &memorySummaryRepository{
		nextID:    1,
		summaries: make(map[uint]domain.TextSummary),
		now:       time.Now,
	}
}

func (r *memorySummaryRepository) Create(ctx context.Context, summary *domain.TextSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary.ID = r.nextID
	r.nextID++
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = r.now()
	}
	r.summaries[summary.ID] = *summary
	return nil
}

func (r *memorySummaryRepository) FindByID(ctx context.Context, id uint) (*domain.TextSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.summaries[id]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	return &s, nil
}

func (r *memorySummaryRepository) FindAll(ctx context.Context) ([]*domain.TextSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.TextSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		s := s
		result = append(result, &s)
	}
	sortByID(result)
	return result, nil
}

func (r *memorySummaryRepository) Update(ctx context.Context, id uint, url, summary string) (*domain.TextSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.summaries[id]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	s.URL = url
	s.Summary = summary
	r.summaries[id] = s
	return &s, nil
}

func (r *memorySummaryRepository) UpdateSummaryText(ctx context.Context, id uint, url, summary string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.summaries[id]
	if !ok || s.URL != url || !s.IsPending() {
		return false, nil
	}
	s.Summary = summary
	r.summaries[id] = s
	return true, nil
}

func (r *memorySummaryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.summaries[id]; !ok {
		return 0, nil
	}
	delete(r.summaries, id)
	return 1, nil
}

func (r *memorySummaryRepository) FindPending(ctx context.Context, staleBefore time.Time, maxAttempts, limit int) ([]*domain.TextSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.TextSummary
	for _, s := range r.summaries {
		if !s.IsPending() || !s.CreatedAt.Before(staleBefore) {
			continue
		}
		if s.LastAttemptAt != nil && !s.LastAttemptAt.Before(staleBefore) {
			continue
		}
		if maxAttempts > 0 && s.Attempts >= maxAttempts {
			continue
		}
		s := s
		result = append(result, &s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Attempts != result[j].Attempts {
			return result[i].Attempts < result[j].Attempts
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memorySummaryRepository) MarkAttempted(ctx context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.summaries[id]
	if !ok {
		return nil
	}
	s.Attempts++
	s.LastAttemptAt = &at
	r.summaries[id] = s
	return nil
}

func sortByID(summaries []*domain.TextSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
}
