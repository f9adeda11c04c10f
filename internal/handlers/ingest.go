package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dimitrije/gyf-api/internal/logger"
	"github.com/dimitrije/gyf-api/internal/ratelimit"
	"github.com/dimitrije/gyf-api/internal/services"
	"github.com/dimitrije/gyf-api/pkg/dto"
)

// maxIngestBody bounds how much of a submission body is read.
const maxIngestBody = 64 << 10

// IngestHandler serves the public /api/feedback endpoint the widget posts to.
// It is a plain net/http handler: it must answer every method itself and send
// CORS headers on every response, including errors.
type IngestHandler struct {
	feedbackService FeedbackServiceInterface
	hub             HubInterface
	limiter         ratelimit.Limiter
	logger          *slog.Logger
}

func NewIngestHandler(feedbackService FeedbackServiceInterface, hub HubInterface, limiter ratelimit.Limiter, log *slog.Logger) *IngestHandler {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &IngestHandler{
		feedbackService: feedbackService,
		hub:             hub,
		limiter:         limiter,
		logger:          log.With("component", "ingest"),
	}
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.submit(w, r)
	default:
		writeIngest(w, http.StatusMethodNotAllowed, dto.IngestResponse{Error: "Method not allowed"})
	}
}

func (h *IngestHandler) submit(w http.ResponseWriter, r *http.Request) {
	req := decodeIngest(r.Body)
	ctx := r.Context()

	if req.WebsiteID != nil {
		ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: logger.Truncate(*req.WebsiteID, 64)})

		decision, err := h.limiter.Allow(ctx, *req.WebsiteID)
		if err != nil {
			h.logger.WarnContext(ctx, "rate limiter unavailable, allowing submission", "error", err)
		}
		if !decision.Allowed {
			h.logger.InfoContext(ctx, "submission rate limited", "limit", decision.Limit, "reset_at", decision.ResetAt)
			setRateLimitHeaders(w.Header(), decision, time.Now())
			writeIngest(w, http.StatusTooManyRequests, dto.IngestResponse{Error: "Too many requests"})
			return
		}
	}

	item, err := h.feedbackService.Submit(ctx, req.WebsiteID, req.Feedback)
	if err != nil {
		resp := dto.IngestResponse{Error: err.Error(), Code: string(services.IngestPersistence)}
		var ingestErr *services.IngestError
		if errors.As(err, &ingestErr) {
			resp.Code = string(ingestErr.Kind)
		}
		h.logger.ErrorContext(ctx, "failed to store feedback", "code", resp.Code, "error", err)
		writeIngest(w, http.StatusInternalServerError, resp)
		return
	}

	h.logger.InfoContext(ctx, "feedback received", "feedback_id", item.ID)
	if h.hub != nil {
		h.hub.BroadcastFeedbackCreated(*item)
	}
	writeIngest(w, http.StatusOK, dto.IngestResponse{Success: true})
}

// decodeIngest never fails. Each field is decoded on its own: one that is
// missing, null or not a string is left absent without discarding the other,
// and a body that is not a JSON object leaves both absent. The store reports
// what is missing.
func decodeIngest(body io.Reader) dto.IngestRequest {
	var req dto.IngestRequest
	if body == nil {
		return req
	}
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(body, maxIngestBody)).Decode(&fields); err != nil {
		return req
	}
	req.WebsiteID = stringField(fields, "websiteId")
	req.Feedback = stringField(fields, "feedback")
	return req
}

func stringField(fields map[string]json.RawMessage, name string) *string {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return value
}

// setRateLimitHeaders tells a throttled caller when to retry. Retry-After is
// whole seconds, rounded up and never below one.
func setRateLimitHeaders(header http.Header, decision ratelimit.Decision, now time.Time) {
	if decision.Limit > 0 {
		header.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		header.Set("X-RateLimit-Remaining", strconv.Itoa(max(decision.Remaining, 0)))
	}
	if decision.ResetAt.IsZero() {
		return
	}
	retry := int(math.Ceil(decision.ResetAt.Sub(now).Seconds()))
	header.Set("Retry-After", strconv.Itoa(max(retry, 1)))
	header.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
}

func writeIngest(w http.ResponseWriter, status int, resp dto.IngestResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
