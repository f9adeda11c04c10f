package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/google/uuid"
)

// DefaultPassword satisfies the signup password rules
const DefaultPassword = "Password123"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user whose password is DefaultPassword
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", f.counter),
		FirstName: fmt.Sprintf("User%d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := services.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, first_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, first_name, password_hash, created_at, updated_at
	`, user.Email, user.FirstName, hash).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithFirstName sets the user's first name
func WithFirstName(name string) UserOption {
	return func(u *models.User) {
		u.FirstName = name
	}
}

// CreateWorkspace creates a workspace owned by owner and returns it with its plaintext secret
func (f *Fixtures) CreateWorkspace(t *testing.T, owner *models.User, opts ...WorkspaceOption) (*models.Workspace, string) {
	t.Helper()
	f.counter++

	ws := &models.Workspace{
		Name:    fmt.Sprintf("Test Workspace %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(ws)
	}

	secret, hash, prefix, err := services.GenerateWorkspaceSecret()
	if err != nil {
		t.Fatalf("failed to generate workspace secret: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO workspaces (name, secret_hash, secret_prefix, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, secret_hash, secret_prefix, owner_id, created_at, updated_at
	`, ws.Name, hash, prefix, ws.OwnerID).Scan(
		&ws.ID, &ws.Name, &ws.SecretHash, &ws.SecretPrefix, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	return ws, secret
}

// WorkspaceOption configures a test workspace
type WorkspaceOption func(*models.Workspace)

// WithWorkspaceName sets the workspace name
func WithWorkspaceName(name string) WorkspaceOption {
	return func(w *models.Workspace) {
		w.Name = name
	}
}

// CreateFeedback inserts a feedback item directly, bypassing the ingestion path
func (f *Fixtures) CreateFeedback(t *testing.T, workspace *models.Workspace, opts ...FeedbackOption) *models.Feedback {
	t.Helper()
	f.counter++

	item := &models.Feedback{
		WebsiteID: workspace.ID,
		Feedback:  fmt.Sprintf("Feedback %d", f.counter),
		Status:    models.FeedbackStatusNew,
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(item)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO feedback (website_id, feedback, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, website_id, feedback, status, created_at
	`, item.WebsiteID, item.Feedback, item.Status, item.CreatedAt).Scan(
		&item.ID, &item.WebsiteID, &item.Feedback, &item.Status, &item.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}

	return item
}

// FeedbackOption configures a test feedback item
type FeedbackOption func(*models.Feedback)

// WithText sets the feedback text
func WithText(text string) FeedbackOption {
	return func(f *models.Feedback) {
		f.Feedback = text
	}
}

// WithStatus sets the feedback status
func WithStatus(status models.FeedbackStatus) FeedbackOption {
	return func(f *models.Feedback) {
		f.Status = status
	}
}

// WithCreatedAt backdates the feedback item
func WithCreatedAt(at time.Time) FeedbackOption {
	return func(f *models.Feedback) {
		f.CreatedAt = at
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
