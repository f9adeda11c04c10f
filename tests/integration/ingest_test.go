package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/gyf-api/internal/handlers"
	"github.com/dimitrije/gyf-api/internal/middleware"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/internal/sse"
	"github.com/dimitrije/gyf-api/internal/widget"
	"github.com/dimitrije/gyf-api/pkg/dto"
	"github.com/dimitrije/gyf-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestStack struct {
	handler  http.Handler
	hub      *sse.Hub
	fixtures *testutil.Fixtures
}

// newIngestStack mounts ingestion and the owner feedback listing the way the
// server does, backed by a real database and hub.
func newIngestStack(t *testing.T) *ingestStack {
	t.Helper()

	tdb := setupTest(t)
	feedbackService := services.NewFeedbackService(tdb.DB)
	workspaceService := services.NewWorkspaceService(tdb.DB)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := sse.NewHub(nil)
	go hub.Run(ctx)

	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, workspaceService, hub)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	protected := app.Group("/api/v1")
	protected.Use(middleware.Auth(testutil.TestJWTService()))
	protected.Get("/workspaces/:workspaceId/feedback", feedbackHandler.List)

	script, err := handlers.NewWidgetScriptHandler(testutil.IngestPath)
	require.NoError(t, err)
	mux := handlers.NewRootMux(handlers.NewIngestHandler(feedbackService, hub, nil, nil), script, app)

	return &ingestStack{
		handler:  mux,
		hub:      hub,
		fixtures: testutil.NewFixtures(tdb.DB),
	}
}

func TestIngest_Integration_SubmissionReachesDashboard(t *testing.T) {
	stack := newIngestStack(t)
	owner := stack.fixtures.CreateUser(t)
	ws, _ := stack.fixtures.CreateWorkspace(t, owner)

	listener := sse.NewClient(owner.ID, ws.ID)
	stack.hub.Register(listener)

	client := testutil.NewHTTPTestClient(t, stack.handler)
	rec := client.PostFeedback(map[string]string{
		"websiteId": ws.ID.String(),
		"feedback":  "Love the new pricing page",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	select {
	case msg := <-listener.Send:
		assert.Contains(t, string(msg), `"type":"feedback_created"`)
		assert.Contains(t, string(msg), "Love the new pricing page")
	case <-time.After(2 * time.Second):
		t.Fatal("no feedback_created event received")
	}

	token := testutil.GenerateTestToken(t, owner.ID, owner.Email)
	rec = client.WithToken(token).Request(http.MethodGet, "/api/v1/workspaces/"+ws.ID.String()+"/feedback", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.FeedbackListResponse
	testutil.ParseJSON(t, rec, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Love the new pricing page", list.Feedback[0].Feedback)
	assert.Equal(t, "new", list.Feedback[0].Status)
	assert.True(t, list.Feedback[0].IsRecent)
}

func TestIngest_Integration_Rejections(t *testing.T) {
	stack := newIngestStack(t)
	owner := stack.fixtures.CreateUser(t)
	ws, _ := stack.fixtures.CreateWorkspace(t, owner)

	testCases := []struct {
		name     string
		body     any
		wantCode string
	}{
		{"missing website id", map[string]string{"feedback": "hi"}, "missing_field"},
		{"missing feedback", map[string]string{"websiteId": ws.ID.String()}, "missing_field"},
		{"unknown workspace", map[string]string{"websiteId": uuid.NewString(), "feedback": "hi"}, "unknown_workspace"},
		{"malformed website id", map[string]string{"websiteId": "abc", "feedback": "hi"}, "invalid_workspace_id"},
		{"not json", "websiteId=abc", "missing_field"},
	}

	client := testutil.NewHTTPTestClient(t, stack.handler)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := client.PostFeedback(tc.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var resp dto.IngestResponse
			testutil.ParseJSON(t, rec, &resp)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestIngest_Integration_WidgetRuntime(t *testing.T) {
	stack := newIngestStack(t)
	owner := stack.fixtures.CreateUser(t)
	ws, _ := stack.fixtures.CreateWorkspace(t, owner)

	server := httptest.NewServer(stack.handler)
	t.Cleanup(server.Close)

	var alerts []string
	notifier := widget.NotifierFunc(func(message string) { alerts = append(alerts, message) })
	submitter := widget.NewClient(server.URL+testutil.IngestPath, server.Client())

	w, err := widget.Init(widget.Config{WebsiteID: ws.ID.String()}, submitter, widget.WithNotifier(notifier))
	require.NoError(t, err)

	require.True(t, w.Open())
	require.NoError(t, w.SetDraft("Search results load slowly"))
	require.True(t, w.Submit(context.Background()))
	w.Wait()

	assert.Equal(t, widget.StateIdle, w.State())
	assert.Equal(t, []string{widget.MsgThankYou}, alerts)

	stranger, err := widget.Init(widget.Config{WebsiteID: uuid.NewString()}, submitter, widget.WithNotifier(notifier))
	require.NoError(t, err)
	stranger.Open()
	require.NoError(t, stranger.SetDraft("lost"))
	stranger.Submit(context.Background())
	stranger.Wait()

	assert.Equal(t, widget.MsgRejected, alerts[len(alerts)-1])

	err = submitter.Submit(context.Background(), widget.Submission{WebsiteID: "abc", Feedback: "x"})
	assert.True(t, errors.Is(err, widget.ErrRejected))
}
