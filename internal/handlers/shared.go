package handlers

import (
	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// SharedHandler serves read-only views to holders of a workspace access
// secret. Routes must sit behind middleware.WorkspaceSecret.
type SharedHandler struct {
	feedbackService FeedbackServiceInterface
}

func NewSharedHandler(feedbackService FeedbackServiceInterface) *SharedHandler {
	return &SharedHandler{feedbackService: feedbackService}
}

func (h *SharedHandler) ListFeedback(c *drift.Context) {
	workspaceID := middleware.GetSharedWorkspaceID(c)
	if workspaceID == uuid.Nil {
		c.Unauthorized("missing workspace secret")
		return
	}

	listFeedback(c, h.feedbackService, workspaceID)
}
