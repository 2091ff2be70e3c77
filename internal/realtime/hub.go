package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one message delivered to subscribed connections
type Event struct {
	Name string `json:"event"`
	Data string `json:"data"`
	ID   string `json:"id,omitempty"`
}

// Client is one live connection subscribed to a single project room
type Client struct {
	ID        string
	ProjectID string
	Chan      chan Event
	Done      chan struct{}
}

// Hub owns the per-project subscriber groups. Connections join exactly one
// room; broadcasts to a room never reach connections in other rooms.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[string]*Client
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.Logger
	heartbeat  time.Duration
	bufferSize int
	maxClients int
	clients    int
}

// HubOption is a functional option for configuring the hub
type HubOption func(*Hub)

// WithHeartbeat sets the keep-alive interval
func WithHeartbeat(interval time.Duration) HubOption {
	return func(h *Hub) {
		h.heartbeat = interval
	}
}

// WithClientBuffer sets the per-connection event buffer size
func WithClientBuffer(size int) HubOption {
	return func(h *Hub) {
		h.bufferSize = size
	}
}

// WithMaxClients caps the number of concurrent connections
func WithMaxClients(max int) HubOption {
	return func(h *Hub) {
		h.maxClients = max
	}
}

// WithLogger sets the hub logger
func WithLogger(logger *zap.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates an empty hub. Call Start to begin heartbeats and Stop to
// disconnect everything on shutdown.
func NewHub(opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		rooms:      make(map[string]map[string]*Client),
		ctx:        ctx,
		cancel:     cancel,
		logger:     zap.NewNop(),
		heartbeat:  30 * time.Second,
		bufferSize: 100,
		maxClients: 10000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start launches the heartbeat loop
func (h *Hub) Start() {
	go h.sendHeartbeats()
}

// Stop disconnects all clients and stops the heartbeat loop
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for _, client := range room {
			close(client.Done)
		}
	}
	h.rooms = make(map[string]map[string]*Client)
	h.clients = 0
	h.logger.Info("realtime hub stopped")
}

// Join registers a new connection in the given project's room
func (h *Hub) Join(projectID string) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxClients > 0 && h.clients >= h.maxClients {
		return nil, fmt.Errorf("maximum number of realtime connections reached")
	}

	client := &Client{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Chan:      make(chan Event, h.bufferSize),
		Done:      make(chan struct{}),
	}

	room, ok := h.rooms[projectID]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[projectID] = room
	}
	room[client.ID] = client
	h.clients++

	h.logger.Debug("realtime client joined",
		zap.String("client_id", client.ID),
		zap.String("project_id", projectID))
	return client, nil
}

// Leave removes a connection from its room. Safe to call more than once.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.ProjectID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}
	delete(room, client.ID)
	h.clients--
	if len(room) == 0 {
		delete(h.rooms, client.ProjectID)
	}
	close(client.Chan)

	h.logger.Debug("realtime client left",
		zap.String("client_id", client.ID),
		zap.String("project_id", client.ProjectID))
}

// Broadcast delivers an event to every connection in the project's room.
// Slow clients with a full buffer miss the event rather than stalling the
// hub.
func (h *Hub) Broadcast(projectID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[projectID] {
		select {
		case client.Chan <- event:
		default:
			h.logger.Warn("client buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("project_id", projectID),
				zap.String("event", event.Name))
		}
	}
}

// ClientCount returns the number of connected clients across all rooms
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients
}

// RoomSize returns the number of connections joined to one project
func (h *Hub) RoomSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

func (h *Hub) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			beat := Event{
				Name: "heartbeat",
				Data: fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			}
			h.mu.RLock()
			projects := make([]string, 0, len(h.rooms))
			for projectID := range h.rooms {
				projects = append(projects, projectID)
			}
			h.mu.RUnlock()
			for _, projectID := range projects {
				h.Broadcast(projectID, beat)
			}
		}
	}
}

// Done reports the hub's shutdown channel for stream handlers to select on
func (h *Hub) Done() <-chan struct{} {
	return h.ctx.Done()
}
