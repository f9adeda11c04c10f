package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidStatus    = errors.New("invalid feedback status")
	ErrNoFeedbackIDs    = errors.New("no feedback ids given")
)

// IngestErrorKind classifies why a widget submission could not be stored.
type IngestErrorKind string

const (
	IngestMissingField       IngestErrorKind = "missing_field"
	IngestUnknownWorkspace   IngestErrorKind = "unknown_workspace"
	IngestInvalidWorkspaceID IngestErrorKind = "invalid_workspace_id"
	IngestPersistence        IngestErrorKind = "persistence"
)

// IngestError carries the store's own message so callers can surface it verbatim.
type IngestError struct {
	Kind IngestErrorKind
	Err  error
}

func (e *IngestError) Error() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Message
	}
	return e.Err.Error()
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

func classifyIngestError(err error) *IngestError {
	kind := IngestPersistence

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502":
			kind = IngestMissingField
		case "23503":
			kind = IngestUnknownWorkspace
		case "22P02":
			kind = IngestInvalidWorkspaceID
		}
	}

	return &IngestError{Kind: kind, Err: err}
}

const feedbackColumns = `id, website_id, feedback, status, created_at`

type FeedbackService struct {
	db *database.DB
}

func NewFeedbackService(db *database.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Submit stores one widget submission as given. Nil fields are written as NULL
// and websiteID is cast by the database, so every shape and existence check
// happens in the store and comes back as an *IngestError.
func (s *FeedbackService) Submit(ctx context.Context, websiteID, feedback *string) (*models.Feedback, error) {
	item, err := scanFeedback(s.db.Pool.QueryRow(ctx, `
		INSERT INTO feedback (website_id, feedback)
		VALUES ($1::text::uuid, $2::text)
		RETURNING `+feedbackColumns,
		nullable(websiteID), nullable(feedback)))
	if err != nil {
		return nil, classifyIngestError(err)
	}
	return item, nil
}

// ListByWorkspace returns feedback newest first, optionally narrowed to one status.
func (s *FeedbackService) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, status *models.FeedbackStatus) ([]models.Feedback, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+feedbackColumns+`
			FROM feedback
			WHERE website_id = $1 AND status = $2
			ORDER BY created_at DESC
		`, workspaceID, string(*status))
	} else {
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+feedbackColumns+`
			FROM feedback
			WHERE website_id = $1
			ORDER BY created_at DESC
		`, workspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateStatus moves the given items of one workspace to status and returns
// the ids that were actually changed. Ids from other workspaces are ignored.
func (s *FeedbackService) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, status models.FeedbackStatus) ([]uuid.UUID, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return nil, ErrNoFeedbackIDs
	}

	rows, err := s.db.Pool.Query(ctx, `
		UPDATE feedback SET status = $1
		WHERE website_id = $2 AND id = ANY($3)
		RETURNING id
	`, string(status), workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback status: %w", err)
	}
	return collectIDs(rows)
}

// Delete removes the given items of one workspace and returns the ids that were deleted.
func (s *FeedbackService) Delete(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, ErrNoFeedbackIDs
	}

	rows, err := s.db.Pool.Query(ctx, `
		DELETE FROM feedback
		WHERE website_id = $1 AND id = ANY($2)
		RETURNING id
	`, workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to delete feedback: %w", err)
	}
	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var f models.Feedback
	var status string
	if err := row.Scan(&f.ID, &f.WebsiteID, &f.Feedback, &status, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Status = models.FeedbackStatus(status)
	return &f, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
