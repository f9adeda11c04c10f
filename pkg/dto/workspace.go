package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name"`
}

type WorkspaceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SecretPrefix string    `json:"secret_prefix"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkspaceSecretResponse is the only response that ever carries the plaintext secret.
type WorkspaceSecretResponse struct {
	WorkspaceResponse
	Secret string `json:"secret"`
}

type EmbedResponse struct {
	Framework string `json:"framework"`
	ScriptURL string `json:"script_url"`
	Snippet   string `json:"snippet"`
}
