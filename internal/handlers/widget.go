package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/dimitrije/gyf-api/internal/widget"
)

// WidgetScriptHandler serves widget.js. The script is rendered once at startup
// with the ingestion URL baked in.
type WidgetScriptHandler struct {
	script   []byte
	etag     string
	modified time.Time
}

func NewWidgetScriptHandler(ingestURL string) (*WidgetScriptHandler, error) {
	script, err := widget.Script(ingestURL)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(script)
	return &WidgetScriptHandler{
		script:   script,
		etag:     fmt.Sprintf(`"%s"`, hex.EncodeToString(sum[:8])),
		modified: time.Now(),
	}, nil
}

func (h *WidgetScriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "application/javascript; charset=utf-8")
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Cache-Control", "public, max-age=300")
	header.Set("ETag", h.etag)

	http.ServeContent(w, r, "widget.js", h.modified, bytes.NewReader(h.script))
}
