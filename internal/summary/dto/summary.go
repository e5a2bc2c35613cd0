package dto

import "time"

// SummaryPayload is the body accepted when a new URL is submitted
type SummaryPayload struct {
	URL string `json:"url" binding:"required,url"`
}

// SummaryUpdatePayload replaces both fields of an existing record
type SummaryUpdatePayload struct {
	URL     string  `json:"url" binding:"required,url"`
	Summary *string `json:"summary" binding:"required"`
}

// FeedImportRequest submits every item link of an RSS/Atom feed
type FeedImportRequest struct {
	FeedURL string `json:"feed_url" binding:"required,url"`
	Limit   int    `json:"limit" binding:"omitempty,min=1,max=100"`
}

// CreatedResponse is returned from create and delete
type CreatedResponse struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

type FeedImportResponse struct {
	IDs   []uint `json:"ids"`
	Count int    `json:"count"`
}

// SummaryUpdateEvent is pushed to SSE clients when a summary is generated
type SummaryUpdateEvent struct {
	ID          uint      `json:"id"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
