package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/gyf-api/internal/config"
	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/google/uuid"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: rotate-secret <workspace-id>")
		os.Exit(1)
	}

	workspaceID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid workspace id %q: %v", os.Args[1], err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	workspace, secret, err := services.NewWorkspaceService(db).RotateSecret(ctx, workspaceID)
	if errors.Is(err, services.ErrWorkspaceNotFound) {
		log.Fatalf("No workspace found with id: %s", workspaceID)
	}
	if err != nil {
		log.Fatalf("Failed to rotate secret: %v", err)
	}

	fmt.Printf("Rotated access secret for %q (%s)\n", workspace.Name, workspace.ID)
	fmt.Println(secret)
}
