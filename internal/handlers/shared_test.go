package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/dimitrije/gyf-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSharedTestApp(feedback *testutil.MockFeedbackService, workspaces *testutil.MockWorkspaceService) http.Handler {
	handler := NewSharedHandler(feedback)

	app := drift.New()
	shared := app.Group("/shared")
	shared.Use(middleware.WorkspaceSecret(workspaces))
	shared.Get("/workspaces/:workspaceId/feedback", handler.ListFeedback)
	return app
}

func sharedRequest(app http.Handler, workspaceID, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/shared/workspaces/"+workspaceID+"/feedback", nil)
	if secret != "" {
		req.Header.Set(middleware.WorkspaceSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestSharedHandler_ListFeedback(t *testing.T) {
	feedback := new(testutil.MockFeedbackService)
	workspaces := new(testutil.MockWorkspaceService)
	app := newSharedTestApp(feedback, workspaces)

	workspaceID := uuid.New()
	workspaces.On("VerifySecret", mock.Anything, workspaceID, "gyf_secret").Return(true, nil)
	feedback.On("ListByWorkspace", mock.Anything, workspaceID, (*models.FeedbackStatus)(nil)).Return([]models.Feedback{
		{ID: uuid.New(), WebsiteID: workspaceID, Feedback: "shared view", Status: models.FeedbackStatusNew, CreatedAt: time.Now()},
	}, nil)

	rec := sharedRequest(app, workspaceID.String(), "gyf_secret")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shared view")
	assert.Contains(t, rec.Body.String(), `"total":1`)
	feedback.AssertExpectations(t)
}

func TestSharedHandler_ListFeedback_WrongSecret(t *testing.T) {
	feedback := new(testutil.MockFeedbackService)
	workspaces := new(testutil.MockWorkspaceService)
	app := newSharedTestApp(feedback, workspaces)

	workspaceID := uuid.New()
	workspaces.On("VerifySecret", mock.Anything, workspaceID, "gyf_wrong").Return(false, nil)

	rec := sharedRequest(app, workspaceID.String(), "gyf_wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	feedback.AssertNotCalled(t, "ListByWorkspace", mock.Anything, mock.Anything, mock.Anything)
}

func TestSharedHandler_ListFeedback_WithoutMiddleware(t *testing.T) {
	feedback := new(testutil.MockFeedbackService)
	handler := NewSharedHandler(feedback)

	app := drift.New()
	app.Get("/feedback", handler.ListFeedback)

	req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing workspace secret")
}
