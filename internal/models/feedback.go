package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackStatus string

const (
	FeedbackStatusNew         FeedbackStatus = "new"
	FeedbackStatusSeen        FeedbackStatus = "seen"
	FeedbackStatusInProgress  FeedbackStatus = "in-progress"
	FeedbackStatusFixed       FeedbackStatus = "fixed"
	FeedbackStatusNotRelevant FeedbackStatus = "not-relevant"
	FeedbackStatusIgnore      FeedbackStatus = "ignore"
)

// RecentWindow is how long a feedback item is flagged as recent on the dashboard.
const RecentWindow = 24 * time.Hour

var FeedbackStatuses = []FeedbackStatus{
	FeedbackStatusNew,
	FeedbackStatusSeen,
	FeedbackStatusInProgress,
	FeedbackStatusFixed,
	FeedbackStatusNotRelevant,
	FeedbackStatusIgnore,
}

func (s FeedbackStatus) Valid() bool {
	for _, known := range FeedbackStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseFeedbackStatus(s string) (FeedbackStatus, bool) {
	status := FeedbackStatus(s)
	return status, status.Valid()
}

type Feedback struct {
	ID        uuid.UUID      `json:"id"`
	WebsiteID uuid.UUID      `json:"website_id"`
	Feedback  string         `json:"feedback"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func (f *Feedback) IsRecent(now time.Time) bool {
	return now.Sub(f.CreatedAt) < RecentWindow
}
