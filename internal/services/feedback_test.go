package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/gyf-api/internal/database"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedbackRowColumns = []string{"id", "website_id", "feedback", "status", "created_at"}

func setupFeedbackService(t *testing.T) (*FeedbackService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewFeedbackService(db), mock
}

func strPtr(s string) *string {
	return &s
}

func TestFeedbackService_Submit(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	websiteID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO feedback \(website_id, feedback\)`).
		WithArgs(websiteID.String(), "Love it").
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns).
			AddRow(itemID, websiteID, "Love it", "new", now))

	item, err := svc.Submit(ctx, strPtr(websiteID.String()), strPtr("Love it"))

	require.NoError(t, err)
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, websiteID, item.WebsiteID)
	assert.Equal(t, models.FeedbackStatusNew, item.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_Submit_PassesTextVerbatim(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	websiteID := uuid.New()
	text := "  padded\n\tand <b>marked</b> up  "

	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs(websiteID.String(), text).
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns).
			AddRow(uuid.New(), websiteID, text, "new", time.Now()))

	item, err := svc.Submit(ctx, strPtr(websiteID.String()), strPtr(text))

	require.NoError(t, err)
	assert.Equal(t, text, item.Feedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_Submit_AbsentFieldsAreNull(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs(nil, nil).
		WillReturnError(&pgconn.PgError{
			Code:    "23502",
			Message: `null value in column "website_id" of relation "feedback" violates not-null constraint`,
		})

	_, err := svc.Submit(ctx, nil, nil)

	var ingestErr *IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, IngestMissingField, ingestErr.Kind)
	assert.Contains(t, err.Error(), `null value in column "website_id"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_Submit_ClassifiesErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind IngestErrorKind
		msg  string
	}{
		{
			name: "unknown workspace",
			err:  &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"},
			kind: IngestUnknownWorkspace,
			msg:  "violates foreign key constraint",
		},
		{
			name: "malformed id",
			err:  &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`},
			kind: IngestInvalidWorkspaceID,
			msg:  `invalid input syntax for type uuid: "abc"`,
		},
		{
			name: "other database error",
			err:  &pgconn.PgError{Code: "53300", Message: "too many connections"},
			kind: IngestPersistence,
			msg:  "too many connections",
		},
		{
			name: "transport error",
			err:  errors.New("connection refused"),
			kind: IngestPersistence,
			msg:  "connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := setupFeedbackService(t)

			mock.ExpectQuery(`INSERT INTO feedback`).
				WithArgs("abc", "hi").
				WillReturnError(tc.err)

			_, err := svc.Submit(context.Background(), strPtr("abc"), strPtr("hi"))

			var ingestErr *IngestError
			require.ErrorAs(t, err, &ingestErr)
			assert.Equal(t, tc.kind, ingestErr.Kind)
			assert.Equal(t, tc.msg, err.Error())
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFeedbackService_ListByWorkspace(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM feedback\s+WHERE website_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(workspaceID).
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns).
			AddRow(uuid.New(), workspaceID, "newer", "new", now).
			AddRow(uuid.New(), workspaceID, "older", "fixed", now.Add(-48*time.Hour)))

	items, err := svc.ListByWorkspace(ctx, workspaceID, nil)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Feedback)
	assert.Equal(t, models.FeedbackStatusFixed, items[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_ListByWorkspace_StatusFilter(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	status := models.FeedbackStatusInProgress

	mock.ExpectQuery(`SELECT .+ FROM feedback\s+WHERE website_id = \$1 AND status = \$2`).
		WithArgs(workspaceID, "in-progress").
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns))

	items, err := svc.ListByWorkspace(ctx, workspaceID, &status)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_ListByWorkspace_InvalidStatus(t *testing.T) {
	svc, _ := setupFeedbackService(t)
	status := models.FeedbackStatus("resolved")

	_, err := svc.ListByWorkspace(context.Background(), uuid.New(), &status)

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFeedbackService_UpdateStatus(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectQuery(`UPDATE feedback SET status`).
		WithArgs("seen", workspaceID, ids).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(ids[0]))

	updated, err := svc.UpdateStatus(ctx, workspaceID, ids, models.FeedbackStatusSeen)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[0]}, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_UpdateStatus_Rejects(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, uuid.New(), []uuid.UUID{uuid.New()}, "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, uuid.New(), nil, models.FeedbackStatusFixed)
	assert.ErrorIs(t, err, ErrNoFeedbackIDs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_Delete(t *testing.T) {
	svc, mock := setupFeedbackService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectQuery(`DELETE FROM feedback`).
		WithArgs(workspaceID, ids).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(ids[0]).AddRow(ids[1]))

	deleted, err := svc.Delete(ctx, workspaceID, ids)

	require.NoError(t, err)
	assert.ElementsMatch(t, ids, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_Delete_NoIDs(t *testing.T) {
	svc, _ := setupFeedbackService(t)

	_, err := svc.Delete(context.Background(), uuid.New(), []uuid.UUID{})

	assert.ErrorIs(t, err, ErrNoFeedbackIDs)
}
