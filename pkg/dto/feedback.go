package dto

import (
	"time"

	"github.com/google/uuid"
)

// IngestRequest fields are pointers so an absent field reaches the store as NULL.
type IngestRequest struct {
	WebsiteID *string `json:"websiteId"`
	Feedback  *string `json:"feedback"`
}

type IngestResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type FeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	WebsiteID uuid.UUID `json:"website_id"`
	Feedback  string    `json:"feedback"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	IsRecent  bool      `json:"is_recent"`
}

type FeedbackListResponse struct {
	Feedback []FeedbackResponse `json:"feedback"`
	Total    int                `json:"total"`
}

type UpdateFeedbackStatusRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Status string      `json:"status"`
}

type DeleteFeedbackRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type FeedbackBatchResponse struct {
	IDs   []uuid.UUID `json:"ids"`
	Count int         `json:"count"`
}
