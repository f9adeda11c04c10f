package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestFeedbackService_Integration_Submit(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)

	item, err := svc.Submit(ctx, ptr(ws.ID.String()), ptr("The checkout button is hidden on mobile"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, ws.ID, item.WebsiteID)
	assert.Equal(t, "The checkout button is hidden on mobile", item.Feedback)
	assert.Equal(t, models.FeedbackStatusNew, item.Status)
	assert.WithinDuration(t, time.Now(), item.CreatedAt, time.Minute)
}

func TestFeedbackService_Integration_SubmitStoresTextVerbatim(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)

	for _, text := range []string{"   ", "", "  padded  ", "<script>alert(1)</script>"} {
		item, err := svc.Submit(ctx, ptr(ws.ID.String()), ptr(text))
		require.NoError(t, err, "text %q", text)
		assert.Equal(t, text, item.Feedback)
	}
}

func TestFeedbackService_Integration_SubmitRejections(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)

	testCases := []struct {
		name      string
		websiteID *string
		feedback  *string
		wantKind  services.IngestErrorKind
	}{
		{"missing website id", nil, ptr("hello"), services.IngestMissingField},
		{"missing feedback", ptr(ws.ID.String()), nil, services.IngestMissingField},
		{"unknown workspace", ptr(uuid.NewString()), ptr("hello"), services.IngestUnknownWorkspace},
		{"malformed website id", ptr("not-a-uuid"), ptr("hello"), services.IngestInvalidWorkspaceID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.websiteID, tc.feedback)
			require.Error(t, err)

			var ingestErr *services.IngestError
			require.ErrorAs(t, err, &ingestErr)
			assert.Equal(t, tc.wantKind, ingestErr.Kind)
			assert.NotEmpty(t, ingestErr.Error())
		})
	}

	var count int
	require.NoError(t, tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count))
	assert.Zero(t, count)
}

func TestFeedbackService_Integration_SubmitDuplicatesKept(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)

	first, err := svc.Submit(ctx, ptr(ws.ID.String()), ptr("same"))
	require.NoError(t, err)
	second, err := svc.Submit(ctx, ptr(ws.ID.String()), ptr("same"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestFeedbackService_Integration_ListByWorkspace(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)
	other, _ := fixtures.CreateWorkspace(t, owner)

	now := time.Now()
	oldest := fixtures.CreateFeedback(t, ws, testutil.WithCreatedAt(now.Add(-72*time.Hour)))
	middle := fixtures.CreateFeedback(t, ws, testutil.WithCreatedAt(now.Add(-2*time.Hour)), testutil.WithStatus(models.FeedbackStatusFixed))
	newest := fixtures.CreateFeedback(t, ws, testutil.WithCreatedAt(now))
	fixtures.CreateFeedback(t, other)

	items, err := svc.ListByWorkspace(ctx, ws.ID, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, newest.ID, items[0].ID)
	assert.Equal(t, middle.ID, items[1].ID)
	assert.Equal(t, oldest.ID, items[2].ID)

	fixed := models.FeedbackStatusFixed
	items, err = svc.ListByWorkspace(ctx, ws.ID, &fixed)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, middle.ID, items[0].ID)

	bogus := models.FeedbackStatus("resolved")
	_, err = svc.ListByWorkspace(ctx, ws.ID, &bogus)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestFeedbackService_Integration_StatusCheckConstraint(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)
	item := fixtures.CreateFeedback(t, ws)

	_, err := tdb.DB.Pool.Exec(ctx, `UPDATE feedback SET status = 'resolved' WHERE id = $1`, item.ID)
	assert.Error(t, err)
}

func TestFeedbackService_Integration_UpdateStatus(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)
	other, _ := fixtures.CreateWorkspace(t, owner)

	a := fixtures.CreateFeedback(t, ws)
	b := fixtures.CreateFeedback(t, ws)
	foreign := fixtures.CreateFeedback(t, other)

	updated, err := svc.UpdateStatus(ctx, ws.ID, []uuid.UUID{a.ID, b.ID, foreign.ID}, models.FeedbackStatusInProgress)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, updated)

	inProgress := models.FeedbackStatusInProgress
	items, err := svc.ListByWorkspace(ctx, other.ID, &inProgress)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeedbackService_Integration_Delete(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewFeedbackService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws, _ := fixtures.CreateWorkspace(t, owner)
	other, _ := fixtures.CreateWorkspace(t, owner)

	keep := fixtures.CreateFeedback(t, ws)
	gone := fixtures.CreateFeedback(t, ws)
	foreign := fixtures.CreateFeedback(t, other)

	deleted, err := svc.Delete(ctx, ws.ID, []uuid.UUID{gone.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{gone.ID}, deleted)

	items, err := svc.ListByWorkspace(ctx, ws.ID, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)

	items, err = svc.ListByWorkspace(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
