package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"summarizer-backend/internal/summary/domain"

	"gorm.io/gorm"
)

// gormSummaryRepository implements SummaryRepository using GORM
type gormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GORM-based SummaryRepository
func NewGormSummaryRepository(db *gorm.DB) SummaryRepository {
	return &gormSummaryRepository{db: db}
}

func (r *gormSummaryRepository) Create(ctx context.Context, summary *domain.TextSummary) error {
	if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	return nil
}

func (r *gormSummaryRepository) FindByID(ctx context.Context, id uint) (*domain.TextSummary, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func (r *gormSummaryRepository) FindAll(ctx context.Context) ([]*domain.TextSummary, error) {
	summaries := []*domain.TextSummary{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	return summaries, nil
}

func (r *gormSummaryRepository) Update(ctx context.Context, id uint, url, summary string) (*domain.TextSummary, error) {
	var updated *domain.TextSummary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.TextSummary{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"url":     url,
				"summary": summary,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update summary: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrSummaryNotFound
		}

		var err error
		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *gormSummaryRepository) UpdateSummaryText(ctx context.Context, id uint, url, summary string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.TextSummary{}).
		Where("id = ? AND url = ? AND summary = ?", id, url, "").
		Update("summary", summary)
	if result.Error != nil {
		return false, fmt.Errorf("failed to save generated summary: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormSummaryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.TextSummary{}, "id = ?", id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete summary: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormSummaryRepository) FindPending(ctx context.Context, staleBefore time.Time, maxAttempts, limit int) ([]*domain.TextSummary, error) {
	query := r.db.WithContext(ctx).
		Where("summary = ? AND created_at < ?", "", staleBefore).
		Where("(last_attempt_at IS NULL OR last_attempt_at < ?)", staleBefore)
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var summaries []*domain.TextSummary
	if err := query.Order("attempts ASC").Order("id ASC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to find pending summaries: %w", err)
	}
	return summaries, nil
}

func (r *gormSummaryRepository) MarkAttempted(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.TextSummary{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + ?", 1),
			"last_attempt_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark summary attempt: %w", err)
	}
	return nil
}

func findByID(db *gorm.DB, id uint) (*domain.TextSummary, error) {
	var summary domain.TextSummary
	err := db.Where("id = ?", id).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &summary, nil
}
