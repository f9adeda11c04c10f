package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/gyf-api/internal/config"
	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/handlers"
	"github.com/dimitrije/gyf-api/internal/logger"
	authmw "github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/ratelimit"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fatal(log, "failed to run migrations", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	workspaceService := services.NewWorkspaceService(db)
	feedbackService := services.NewFeedbackService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	hub := sse.NewHub(log)
	go hub.Run(ctx)

	limiter, closeLimiter := newLimiter(ctx, cfg.RateLimit, log)
	defer closeLimiter()

	scriptHandler, err := handlers.NewWidgetScriptHandler(cfg.IngestURL)
	if err != nil {
		fatal(log, "failed to render widget script", err)
	}

	ingestHandler := handlers.NewIngestHandler(feedbackService, hub, limiter, log)
	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService, emailService)
	userHandler := handlers.NewUserHandler(userService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, cfg.BaseURL+"/widget.js")
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, workspaceService, hub)
	sharedHandler := handlers.NewSharedHandler(feedbackService)
	sseHandler := handlers.NewSSEHandler(hub, workspaceService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", authmw.WorkspaceSecretHeader},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/password-reset", authHandler.RequestPasswordReset)
	auth.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Delete("/users/me", userHandler.DeleteMe)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Patch("/workspaces/:workspaceId", workspaceHandler.Update)
	protected.Delete("/workspaces/:workspaceId", workspaceHandler.Delete)
	protected.Post("/workspaces/:workspaceId/secret", workspaceHandler.RotateSecret)
	protected.Get("/workspaces/:workspaceId/embed", workspaceHandler.Embed)

	protected.Get("/workspaces/:workspaceId/feedback", feedbackHandler.List)
	protected.Patch("/workspaces/:workspaceId/feedback", feedbackHandler.UpdateStatus)
	protected.Post("/workspaces/:workspaceId/feedback/delete", feedbackHandler.DeleteBatch)
	protected.Delete("/workspaces/:workspaceId/feedback/:feedbackId", feedbackHandler.DeleteOne)

	protected.Get("/workspaces/:workspaceId/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:workspaceId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:workspaceId", sseHandler.Unsubscribe)

	shared := api.Group("/shared")
	shared.Use(authmw.WorkspaceSecret(workspaceService))
	shared.Get("/workspaces/:workspaceId/feedback", sharedHandler.ListFeedback)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	mux := handlers.NewRootMux(ingestHandler, scriptHandler, app)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           authmw.RequestLogger(log, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := tokenService.CleanupExpired(ctx); err != nil {
					log.Warn("token cleanup failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Info("server starting", "addr", server.Addr, "ingest_url", cfg.IngestURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server failed", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// newLimiter returns the ingestion limiter. Without a configured limit or when
// Redis cannot be reached, ingestion runs unlimited.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, log *slog.Logger) (ratelimit.Limiter, func()) {
	if !cfg.Enabled() {
		return ratelimit.Noop{}, func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("invalid REDIS_URL, ingest rate limiting disabled", "error", err)
		return ratelimit.Noop{}, func() {}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, ingest rate limiting disabled", "error", err)
		_ = client.Close()
		return ratelimit.Noop{}, func() {}
	}

	log.Info("ingest rate limiting enabled", "limit", cfg.Limit, "window", cfg.Window)
	limiter := ratelimit.NewRedisLimiter(client, "gyf:ingest:", cfg.Limit, cfg.Window)
	return limiter, func() { _ = limiter.Close() }
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
