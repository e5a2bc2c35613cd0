package domain

import (
	"errors"
	"time"
)

var (
	// ErrSummaryNotFound is returned when no record matches the requested id
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrFeedUnavailable is returned when a feed cannot be fetched or parsed
	ErrFeedUnavailable = errors.New("feed unavailable")
)

// TextSummary is a submitted URL together with its generated summary
type TextSummary struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	Summary   string    `json:"summary" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Retry bookkeeping for the pending scheduler
	Attempts      int        `json:"-" gorm:"not null;default:0"`
	LastAttemptAt *time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (TextSummary) TableName() string {
	return "text_summaries"
}

// IsPending reports whether the summary has not been produced yet
func (s *TextSummary) IsPending() bool {
	return s.Summary == ""
}
