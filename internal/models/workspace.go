package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is a registered site. Its ID doubles as the widget's websiteId.
type Workspace struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SecretHash   string    `json:"-"`
	SecretPrefix string    `json:"secret_prefix"`
	OwnerID      uuid.UUID `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (w *Workspace) IsOwnedBy(userID uuid.UUID) bool {
	return w.OwnerID == userID
}
