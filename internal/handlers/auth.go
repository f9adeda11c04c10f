package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/dimitrije/gyf-api/internal/config"
	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const resetPath = "/auth/update-password"

type AuthHandler struct {
	cfg          *config.Config
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	emailService EmailServiceInterface
}

func NewAuthHandler(
	cfg *config.Config,
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
	emailService EmailServiceInterface,
) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
		emailService: emailService,
	}
}

func (h *AuthHandler) Signup(c *drift.Context) {
	var req dto.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.Register(ctx, req.Email, req.Password, req.FirstName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			c.BadRequest("invalid email address")
		case errors.Is(err, services.ErrWeakPassword):
			_ = c.JSON(400, dto.ValidationErrorResponse{
				Error:   "password does not meet requirements",
				Details: services.PasswordProblems(req.Password),
			})
		case errors.Is(err, services.ErrEmailTaken):
			_ = c.JSON(409, map[string]string{
				"code":    "EMAIL_TAKEN",
				"message": "an account with this email already exists",
			})
		default:
			c.InternalServerError("failed to create account")
		}
		return
	}

	tokens, ok := h.issueTokens(ctx, c, user)
	if !ok {
		return
	}

	_ = c.JSON(201, dto.AuthResponse{User: userResponse(user), TokenResponse: tokens})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Unauthorized("invalid email or password")
			return
		}
		c.InternalServerError("failed to sign in")
		return
	}

	tokens, ok := h.issueTokens(ctx, c, user)
	if !ok {
		return
	}

	_ = c.JSON(200, dto.AuthResponse{User: userResponse(user), TokenResponse: tokens})
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedUserID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedUserID != userID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		c.InternalServerError("failed to revoke old token")
		return
	}

	tokens, ok := h.issueTokens(ctx, c, user)
	if !ok {
		return
	}

	_ = c.JSON(200, tokens)
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		_ = h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash)
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "all sessions logged out"})
}

// RequestPasswordReset always answers 200 so the endpoint cannot be used to
// probe which emails have accounts.
func (h *AuthHandler) RequestPasswordReset(c *drift.Context) {
	var req dto.PasswordResetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	response := dto.MessageResponse{Message: "if an account exists for this email, a reset link has been sent"}
	ctx := c.Request.Context()

	user, err := h.userService.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) && !errors.Is(err, services.ErrInvalidEmail) {
			slog.ErrorContext(ctx, "password reset lookup failed", "error", err)
		}
		_ = c.JSON(200, response)
		return
	}

	if !h.emailService.IsConfigured() {
		slog.WarnContext(ctx, "password reset requested but SMTP is not configured", "user_id", user.ID)
		_ = c.JSON(200, response)
		return
	}

	token, err := h.tokenService.IssueResetToken(ctx, user.ID)
	if err != nil {
		c.InternalServerError("failed to create reset token")
		return
	}

	resetURL := h.cfg.FrontendURL + resetPath + "?token=" + url.QueryEscape(token)
	if err := h.emailService.SendPasswordReset(user.Email, user.FirstName, resetURL); err != nil {
		slog.ErrorContext(ctx, "failed to send password reset email", "user_id", user.ID, "error", err)
	}

	_ = c.JSON(200, response)
}

func (h *AuthHandler) ConfirmPasswordReset(c *drift.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Token == "" || req.Password == "" {
		c.BadRequest("token and password are required")
		return
	}

	if problems := services.PasswordProblems(req.Password); len(problems) > 0 {
		_ = c.JSON(400, dto.ValidationErrorResponse{
			Error:   "password does not meet requirements",
			Details: problems,
		})
		return
	}

	ctx := c.Request.Context()

	userID, err := h.tokenService.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			c.BadRequest("reset link is invalid or has expired")
			return
		}
		c.InternalServerError("failed to verify reset token")
		return
	}

	if err := h.userService.SetPassword(ctx, userID, req.Password); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update password")
		return
	}

	// A new password ends every existing session.
	if err := h.tokenService.RevokeAllUserTokens(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "failed to revoke sessions after password reset", "user_id", userID, "error", err)
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "password updated"})
}

func (h *AuthHandler) issueTokens(ctx context.Context, c *drift.Context, user *models.User) (dto.TokenResponse, bool) {
	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return dto.TokenResponse{}, false
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		c.InternalServerError("failed to store refresh token")
		return dto.TokenResponse{}, false
	}

	return dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, true
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		CreatedAt: user.CreatedAt,
	}
}
