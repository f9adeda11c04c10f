package middleware

import (
	"context"

	"github.com/dimitrije/gyf-api/internal/logger"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	WorkspaceSecretHeader = "X-Workspace-Secret"
	SharedWorkspaceIDKey  = "shared_workspace_id"
)

type SecretVerifier interface {
	VerifySecret(ctx context.Context, workspaceID uuid.UUID, secret string) (bool, error)
}

// WorkspaceSecret grants read access to the :workspaceId in the route when
// the request carries that workspace's access secret.
func WorkspaceSecret(verifier SecretVerifier) drift.HandlerFunc {
	return func(c *drift.Context) {
		secret := c.GetHeader(WorkspaceSecretHeader)
		if secret == "" {
			c.Unauthorized("missing workspace secret")
			return
		}

		workspaceID, err := uuid.Parse(c.Param("workspaceId"))
		if err != nil {
			c.BadRequest("invalid workspace id")
			return
		}

		ok, err := verifier.VerifySecret(c.Request.Context(), workspaceID, secret)
		if err != nil {
			c.InternalServerError("failed to verify workspace secret")
			return
		}
		if !ok {
			c.Unauthorized("invalid workspace secret")
			return
		}

		c.Set(SharedWorkspaceIDKey, workspaceID)
		c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), logger.LogFields{
			WorkspaceID: workspaceID.String(),
		}))
		c.Next()
	}
}

func GetSharedWorkspaceID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(SharedWorkspaceIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}
