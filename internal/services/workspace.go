package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxWorkspaceName = 255

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidWorkspace  = errors.New("workspace name must be between 1 and 255 characters")
)

const workspaceColumns = `id, name, secret_hash, secret_prefix, owner_id, created_at, updated_at`

type WorkspaceService struct {
	db *database.DB
}

func NewWorkspaceService(db *database.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// Create registers a workspace and returns it with its access secret. The
// secret is not stored in plaintext and cannot be read back later.
func (s *WorkspaceService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Workspace, string, error) {
	name, err := workspaceName(name)
	if err != nil {
		return nil, "", err
	}

	secret, hash, prefix, err := GenerateWorkspaceSecret()
	if err != nil {
		return nil, "", err
	}

	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		INSERT INTO workspaces (name, secret_hash, secret_prefix, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+workspaceColumns,
		name, hash, prefix, ownerID))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, secret, nil
}

func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1
	`, workspaceID))
	return workspace, notFound(err, ErrWorkspaceNotFound)
}

func (s *WorkspaceService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Workspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+workspaceColumns+`
		FROM workspaces
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *w)
	}
	return workspaces, rows.Err()
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name string) (*models.Workspace, error) {
	name, err := workspaceName(name)
	if err != nil {
		return nil, err
	}

	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+workspaceColumns,
		name, workspaceID))
	return workspace, notFound(err, ErrWorkspaceNotFound)
}

// Delete removes the workspace and, by cascade, all of its feedback.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

func (s *WorkspaceService) IsOwner(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM workspaces WHERE id = $1`, workspaceID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ownerID == userID, nil
}

// RotateSecret replaces the access secret, invalidating every shared link that used the old one.
func (s *WorkspaceService) RotateSecret(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, string, error) {
	secret, hash, prefix, err := GenerateWorkspaceSecret()
	if err != nil {
		return nil, "", err
	}

	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces SET secret_hash = $1, secret_prefix = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+workspaceColumns,
		hash, prefix, workspaceID))
	if err != nil {
		return nil, "", notFound(err, ErrWorkspaceNotFound)
	}
	return workspace, secret, nil
}

// VerifySecret reports whether secret is the workspace's current access secret.
func (s *WorkspaceService) VerifySecret(ctx context.Context, workspaceID uuid.UUID, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}

	var hash string
	err := s.db.Pool.QueryRow(ctx, `SELECT secret_hash FROM workspaces WHERE id = $1`, workspaceID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return CheckHash(hash, secret), nil
}

func workspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxWorkspaceName {
		return "", ErrInvalidWorkspace
	}
	return name, nil
}

func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var w models.Workspace
	if err := row.Scan(&w.ID, &w.Name, &w.SecretHash, &w.SecretPrefix, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
