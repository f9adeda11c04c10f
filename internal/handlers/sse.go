package handlers

import (
	"fmt"

	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub              HubInterface
	workspaceService WorkspaceServiceInterface
}

func NewSSEHandler(hub HubInterface, workspaceService WorkspaceServiceInterface) *SSEHandler {
	return &SSEHandler{
		hub:              hub,
		workspaceService: workspaceService,
	}
}

// Connect streams feedback events for :workspaceId until the client goes away.
// The first event carries the client id used to manage further subscriptions.
func (h *SSEHandler) Connect(c *drift.Context) {
	ctx := c.Request.Context()

	userID, workspaceID, ok := requireOwner(ctx, c, h.workspaceService)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	client := sse.NewClient(userID, workspaceID)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	userID, workspaceID, ok := requireOwner(c.Request.Context(), c, h.workspaceService)
	if !ok {
		return
	}

	if !h.hub.SubscribeToWorkspace(clientID, userID, workspaceID) {
		c.NotFound("client not found")
		return
	}

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to workspace %s", workspaceID),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	if !h.hub.UnsubscribeFromWorkspace(clientID, userID, workspaceID) {
		c.NotFound("client not found")
		return
	}

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from workspace %s", workspaceID),
	})
}
