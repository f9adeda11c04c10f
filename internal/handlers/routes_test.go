package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRootMux(t *testing.T) *http.ServeMux {
	t.Helper()
	script, err := NewWidgetScriptHandler(testIngestURL)
	require.NoError(t, err)

	ingest := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Route", "ingest")
	})
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Route", "app")
		w.WriteHeader(http.StatusNotFound)
	})
	return NewRootMux(ingest, script, app)
}

func TestRootMux_WidgetScriptRejectsOtherMethods(t *testing.T) {
	mux := newTestRootMux(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(method, "/widget.js", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
			assert.Empty(t, rec.Header().Get("X-Route"))
		})
	}
}

func TestRootMux_Routes(t *testing.T) {
	mux := newTestRootMux(t)

	testCases := []struct {
		name   string
		method string
		path   string
		route  string
	}{
		{"ingest post", http.MethodPost, "/api/feedback", "ingest"},
		{"ingest preflight", http.MethodOptions, "/api/feedback", "ingest"},
		{"dashboard api", http.MethodGet, "/api/workspaces", "app"},
		{"unknown path", http.MethodGet, "/nope", "app"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.route, rec.Header().Get("X-Route"))
		})
	}
}

func TestRootMux_ServesWidgetScript(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRootMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widget.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FeedbackWidget")
}
