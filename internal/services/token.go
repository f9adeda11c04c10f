package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResetTokenExpiry bounds how long a password reset link stays usable.
const ResetTokenExpiry = time.Hour

var ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

type TokenService struct {
	db *database.DB
}

func NewTokenService(db *database.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	return err
}

func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	return userID, err
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

// IssueResetToken replaces any outstanding reset token for the user and
// returns the plaintext token to put in the email link.
func (s *TokenService) IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := GenerateOpaqueToken()
	if err != nil {
		return "", err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return "", fmt.Errorf("failed to clear reset tokens: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, HashToken(token), time.Now().Add(ResetTokenExpiry)); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit reset token: %w", err)
	}

	return token, nil
}

// ConsumeResetToken deletes the token and returns its owner. A token can be consumed once.
func (s *TokenService) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM password_resets
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id
	`, HashToken(token)).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}

func (s *TokenService) CleanupExpired(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`); err != nil {
		return err
	}
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < NOW()`)
	return err
}
