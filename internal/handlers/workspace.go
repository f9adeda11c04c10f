package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/internal/widget"
	"github.com/dimitrije/gyf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type WorkspaceHandler struct {
	workspaceService WorkspaceServiceInterface
	scriptURL        string
}

// NewWorkspaceHandler takes the public URL of widget.js, which embed snippets point at.
func NewWorkspaceHandler(workspaceService WorkspaceServiceInterface, scriptURL string) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		scriptURL:        scriptURL,
	}
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.BadRequest("name is required")
		return
	}

	workspace, secret, err := h.workspaceService.Create(c.Request.Context(), req.Name, userID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWorkspace) {
			c.BadRequest("name must be between 1 and 255 characters")
			return
		}
		c.InternalServerError("failed to create workspace")
		return
	}

	_ = c.JSON(201, dto.WorkspaceSecretResponse{
		WorkspaceResponse: workspaceResponse(workspace),
		Secret:            secret,
	})
}

func (h *WorkspaceHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaces, err := h.workspaceService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.InternalServerError("failed to get workspaces")
		return
	}

	response := make([]dto.WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		response[i] = workspaceResponse(&workspaces[i])
	}

	_ = c.JSON(200, response)
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
	workspace, ok := h.ownedWorkspace(c)
	if !ok {
		return
	}

	_ = c.JSON(200, workspaceResponse(workspace))
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
	workspace, ok := h.ownedWorkspace(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.BadRequest("name is required")
		return
	}

	updated, err := h.workspaceService.Update(c.Request.Context(), workspace.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWorkspace):
			c.BadRequest("name must be between 1 and 255 characters")
		case errors.Is(err, services.ErrWorkspaceNotFound):
			c.NotFound("workspace not found")
		default:
			c.InternalServerError("failed to update workspace")
		}
		return
	}

	_ = c.JSON(200, workspaceResponse(updated))
}

// Delete removes the workspace and, by cascade, all of its feedback.
func (h *WorkspaceHandler) Delete(c *drift.Context) {
	workspace, ok := h.ownedWorkspace(c)
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(c.Request.Context(), workspace.ID); err != nil {
		if errors.Is(err, services.ErrWorkspaceNotFound) {
			c.NotFound("workspace not found")
			return
		}
		c.InternalServerError("failed to delete workspace")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "workspace deleted"})
}

func (h *WorkspaceHandler) RotateSecret(c *drift.Context) {
	workspace, ok := h.ownedWorkspace(c)
	if !ok {
		return
	}

	rotated, secret, err := h.workspaceService.RotateSecret(c.Request.Context(), workspace.ID)
	if err != nil {
		if errors.Is(err, services.ErrWorkspaceNotFound) {
			c.NotFound("workspace not found")
			return
		}
		c.InternalServerError("failed to rotate secret")
		return
	}

	_ = c.JSON(200, dto.WorkspaceSecretResponse{
		WorkspaceResponse: workspaceResponse(rotated),
		Secret:            secret,
	})
}

// Embed returns the integration snippet for ?framework= (html by default),
// optionally preconfigured with ?position= and ?color=.
func (h *WorkspaceHandler) Embed(c *drift.Context) {
	workspace, ok := h.ownedWorkspace(c)
	if !ok {
		return
	}

	framework, err := widget.ParseFramework(c.QueryParam("framework"))
	if err != nil {
		c.BadRequest("unsupported framework: " + c.QueryParam("framework"))
		return
	}

	snippet, err := widget.Snippet(framework, h.scriptURL, widget.Config{
		WebsiteID: workspace.ID.String(),
		Position:  widget.Position(c.QueryParam("position")),
		Color:     c.QueryParam("color"),
	})
	if err != nil {
		switch {
		case errors.Is(err, widget.ErrInvalidPosition):
			c.BadRequest("invalid position")
		case errors.Is(err, widget.ErrInvalidColor):
			c.BadRequest("invalid color")
		default:
			c.InternalServerError("failed to render snippet")
		}
		return
	}

	_ = c.JSON(200, dto.EmbedResponse{
		Framework: string(framework),
		ScriptURL: h.scriptURL,
		Snippet:   snippet,
	})
}

// ownedWorkspace resolves :workspaceId for the authenticated owner. Workspaces
// owned by someone else are reported as not found.
func (h *WorkspaceHandler) ownedWorkspace(c *drift.Context) (*models.Workspace, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return nil, false
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return nil, false
	}

	workspace, err := h.workspaceService.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, services.ErrWorkspaceNotFound) {
			c.NotFound("workspace not found")
			return nil, false
		}
		c.InternalServerError("failed to get workspace")
		return nil, false
	}

	if !workspace.IsOwnedBy(userID) {
		c.NotFound("workspace not found")
		return nil, false
	}

	return workspace, true
}

// requireOwner is the lighter ownership check for routes that do not need the workspace row.
func requireOwner(ctx context.Context, c *drift.Context, workspaces WorkspaceServiceInterface) (uuid.UUID, uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return uuid.Nil, uuid.Nil, false
	}

	isOwner, err := workspaces.IsOwner(ctx, workspaceID, userID)
	if err != nil {
		c.InternalServerError("failed to check workspace access")
		return uuid.Nil, uuid.Nil, false
	}
	if !isOwner {
		c.NotFound("workspace not found")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, workspaceID, true
}

func workspaceResponse(w *models.Workspace) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{
		ID:           w.ID,
		Name:         w.Name,
		SecretPrefix: w.SecretPrefix,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
