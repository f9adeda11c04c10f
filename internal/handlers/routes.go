package handlers

import "net/http"

// NewRootMux puts the public ingestion endpoint and the widget script in front
// of the dashboard app. Both public handlers answer every method themselves so
// they can send their own CORS and 405 responses.
func NewRootMux(ingest, script, app http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/feedback", ingest)
	mux.Handle("/widget.js", script)
	mux.Handle("/", app)
	return mux
}
