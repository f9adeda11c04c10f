package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, firstName string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, firstName string) (*models.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error)
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	IsConfigured() bool
	SendPasswordReset(to, firstName, resetURL string) error
}

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Workspace, string, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Workspace, error)
	Update(ctx context.Context, workspaceID uuid.UUID, name string) (*models.Workspace, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) error
	IsOwner(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	RotateSecret(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, string, error)
}

// FeedbackServiceInterface defines the methods used by handlers from FeedbackService
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, websiteID, feedback *string) (*models.Feedback, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, status *models.FeedbackStatus) ([]models.Feedback, error)
	UpdateStatus(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, status models.FeedbackStatus) ([]uuid.UUID, error)
	Delete(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	SubscribeToWorkspace(clientID string, userID, workspaceID uuid.UUID) bool
	UnsubscribeFromWorkspace(clientID string, userID, workspaceID uuid.UUID) bool
	BroadcastFeedbackCreated(item models.Feedback)
	BroadcastFeedbackStatusChanged(workspaceID uuid.UUID, ids []uuid.UUID, status models.FeedbackStatus, changedBy uuid.UUID)
	BroadcastFeedbackDeleted(workspaceID uuid.UUID, ids []uuid.UUID, deletedBy uuid.UUID)
}

// Compile-time checks that the concrete types satisfy the handler interfaces.
var (
	_ UserServiceInterface      = (*services.UserService)(nil)
	_ TokenServiceInterface     = (*services.TokenService)(nil)
	_ JWTServiceInterface       = (*services.JWTService)(nil)
	_ EmailServiceInterface     = (*services.EmailService)(nil)
	_ WorkspaceServiceInterface = (*services.WorkspaceService)(nil)
	_ FeedbackServiceInterface  = (*services.FeedbackService)(nil)
	_ HubInterface              = (*sse.Hub)(nil)
)
