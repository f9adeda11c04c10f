package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dimitrije/gyf-api/internal/models"
	"github.com/google/uuid"
)

const (
	EventFeedbackCreated       = "feedback_created"
	EventFeedbackStatusChanged = "feedback_status_changed"
	EventFeedbackDeleted       = "feedback_deleted"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type FeedbackCreatedEvent struct {
	Feedback models.Feedback `json:"feedback"`
}

type FeedbackStatusChangedEvent struct {
	WorkspaceID uuid.UUID             `json:"workspace_id"`
	FeedbackIDs []uuid.UUID           `json:"feedback_ids"`
	Status      models.FeedbackStatus `json:"status"`
	ChangedBy   uuid.UUID             `json:"changed_by"`
}

type FeedbackDeletedEvent struct {
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	FeedbackIDs []uuid.UUID `json:"feedback_ids"`
	DeletedBy   uuid.UUID   `json:"deleted_by"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Workspaces map[uuid.UUID]bool
	Send       chan []byte
}

func NewClient(userID uuid.UUID, workspaceID uuid.UUID) *Client {
	return &Client{
		ID:         uuid.NewString(),
		UserID:     userID,
		Workspaces: map[uuid.UUID]bool{workspaceID: true},
		Send:       make(chan []byte, 256),
	}
}

type WorkspaceMessage struct {
	WorkspaceID uuid.UUID
	Event       Event
}

// Hub fans workspace events out to connected dashboard clients. Run owns
// registration; subscriptions and broadcasts read the client map under mu.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *WorkspaceMessage
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WorkspaceMessage, 256),
		done:       make(chan struct{}),
		logger:     logger.With("component", "sse"),
	}
}

// Run processes hub traffic until ctx is cancelled, then closes every client.
// Register and Unregister stop blocking once Run has returned.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				h.logger.Error("failed to encode event", "type", msg.Event.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.Workspaces[msg.WorkspaceID] {
					select {
					case client.Send <- data:
					default:
						h.logger.Warn("client buffer full, dropping event", "client_id", client.ID, "type", msg.Event.Type)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds client to the hub. After shutdown the client's Send channel
// is closed straight away so its stream ends.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister is a no-op after shutdown; Run already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SubscribeToWorkspace adds a workspace to a connected client. Only the
// user who opened the stream may change its subscriptions.
func (h *Hub) SubscribeToWorkspace(clientID string, userID, workspaceID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return false
	}
	client.Workspaces[workspaceID] = true
	return true
}

func (h *Hub) UnsubscribeFromWorkspace(clientID string, userID, workspaceID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return false
	}
	delete(client.Workspaces, workspaceID)
	return true
}

func (h *Hub) BroadcastFeedbackCreated(item models.Feedback) {
	h.publish(item.WebsiteID, EventFeedbackCreated, FeedbackCreatedEvent{Feedback: item})
}

func (h *Hub) BroadcastFeedbackStatusChanged(workspaceID uuid.UUID, ids []uuid.UUID, status models.FeedbackStatus, changedBy uuid.UUID) {
	h.publish(workspaceID, EventFeedbackStatusChanged, FeedbackStatusChangedEvent{
		WorkspaceID: workspaceID,
		FeedbackIDs: ids,
		Status:      status,
		ChangedBy:   changedBy,
	})
}

func (h *Hub) BroadcastFeedbackDeleted(workspaceID uuid.UUID, ids []uuid.UUID, deletedBy uuid.UUID) {
	h.publish(workspaceID, EventFeedbackDeleted, FeedbackDeletedEvent{
		WorkspaceID: workspaceID,
		FeedbackIDs: ids,
		DeletedBy:   deletedBy,
	})
}

// publish never blocks the caller; events are dropped when the queue is full.
func (h *Hub) publish(workspaceID uuid.UUID, eventType string, data any) {
	msg := &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event:       Event{Type: eventType, Data: data},
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping event", "type", eventType, "workspace_id", workspaceID)
	}
}
