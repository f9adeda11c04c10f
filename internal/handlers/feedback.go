package handlers

import (
	"errors"
	"time"

	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// maxBatch caps how many feedback ids one bulk request may touch.
const maxBatch = 500

type FeedbackHandler struct {
	feedbackService  FeedbackServiceInterface
	workspaceService WorkspaceServiceInterface
	hub              HubInterface
}

func NewFeedbackHandler(feedbackService FeedbackServiceInterface, workspaceService WorkspaceServiceInterface, hub HubInterface) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService:  feedbackService,
		workspaceService: workspaceService,
		hub:              hub,
	}
}

func (h *FeedbackHandler) List(c *drift.Context) {
	ctx := c.Request.Context()

	_, workspaceID, ok := requireOwner(ctx, c, h.workspaceService)
	if !ok {
		return
	}

	listFeedback(c, h.feedbackService, workspaceID)
}

func (h *FeedbackHandler) UpdateStatus(c *drift.Context) {
	ctx := c.Request.Context()

	userID, workspaceID, ok := requireOwner(ctx, c, h.workspaceService)
	if !ok {
		return
	}

	var req dto.UpdateFeedbackStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	status, valid := models.ParseFeedbackStatus(req.Status)
	if !valid {
		c.BadRequest("invalid status: " + req.Status)
		return
	}

	if !validBatch(c, req.IDs) {
		return
	}

	updated, err := h.feedbackService.UpdateStatus(ctx, workspaceID, req.IDs, status)
	if err != nil {
		c.InternalServerError("failed to update feedback")
		return
	}

	if len(updated) > 0 {
		h.hub.BroadcastFeedbackStatusChanged(workspaceID, updated, status, userID)
	}

	_ = c.JSON(200, dto.FeedbackBatchResponse{IDs: updated, Count: len(updated)})
}

func (h *FeedbackHandler) DeleteBatch(c *drift.Context) {
	ctx := c.Request.Context()

	userID, workspaceID, ok := requireOwner(ctx, c, h.workspaceService)
	if !ok {
		return
	}

	var req dto.DeleteFeedbackRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !validBatch(c, req.IDs) {
		return
	}

	h.deleteFeedback(c, userID, workspaceID, req.IDs)
}

func (h *FeedbackHandler) DeleteOne(c *drift.Context) {
	ctx := c.Request.Context()

	userID, workspaceID, ok := requireOwner(ctx, c, h.workspaceService)
	if !ok {
		return
	}

	feedbackID, err := uuid.Parse(c.Param("feedbackId"))
	if err != nil {
		c.BadRequest("invalid feedback id")
		return
	}

	deleted, ok := h.deleteIDs(c, workspaceID, []uuid.UUID{feedbackID})
	if !ok {
		return
	}
	if len(deleted) == 0 {
		c.NotFound("feedback not found")
		return
	}

	h.hub.BroadcastFeedbackDeleted(workspaceID, deleted, userID)
	_ = c.JSON(200, dto.FeedbackBatchResponse{IDs: deleted, Count: len(deleted)})
}

func (h *FeedbackHandler) deleteFeedback(c *drift.Context, userID, workspaceID uuid.UUID, ids []uuid.UUID) {
	deleted, ok := h.deleteIDs(c, workspaceID, ids)
	if !ok {
		return
	}

	if len(deleted) > 0 {
		h.hub.BroadcastFeedbackDeleted(workspaceID, deleted, userID)
	}

	_ = c.JSON(200, dto.FeedbackBatchResponse{IDs: deleted, Count: len(deleted)})
}

func (h *FeedbackHandler) deleteIDs(c *drift.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, bool) {
	deleted, err := h.feedbackService.Delete(c.Request.Context(), workspaceID, ids)
	if err != nil {
		c.InternalServerError("failed to delete feedback")
		return nil, false
	}
	return deleted, true
}

func validBatch(c *drift.Context, ids []uuid.UUID) bool {
	if len(ids) == 0 {
		c.BadRequest("ids are required")
		return false
	}
	if len(ids) > maxBatch {
		c.BadRequest("too many ids in one request")
		return false
	}
	return true
}

// listFeedback writes the workspace's feedback, narrowed by ?status= when present.
func listFeedback(c *drift.Context, feedbackService FeedbackServiceInterface, workspaceID uuid.UUID) {
	var filter *models.FeedbackStatus
	if raw := c.QueryParam("status"); raw != "" {
		status, ok := models.ParseFeedbackStatus(raw)
		if !ok {
			c.BadRequest("invalid status: " + raw)
			return
		}
		filter = &status
	}

	items, err := feedbackService.ListByWorkspace(c.Request.Context(), workspaceID, filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.BadRequest("invalid status")
			return
		}
		c.InternalServerError("failed to get feedback")
		return
	}

	now := time.Now()
	response := dto.FeedbackListResponse{
		Feedback: make([]dto.FeedbackResponse, len(items)),
		Total:    len(items),
	}
	for i := range items {
		response.Feedback[i] = dto.FeedbackResponse{
			ID:        items[i].ID,
			WebsiteID: items[i].WebsiteID,
			Feedback:  items[i].Feedback,
			Status:    string(items[i].Status),
			CreatedAt: items[i].CreatedAt,
			IsRecent:  items[i].IsRecent(now),
		}
	}

	_ = c.JSON(200, response)
}
