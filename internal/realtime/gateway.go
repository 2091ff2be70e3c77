package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway exposes the hub over HTTP: an SSE stream per project and a relay
// endpoint for client-originated collaborative updates.
type Gateway struct {
	hub    *Hub
	logger *zap.Logger
}

// NewGateway creates the HTTP surface for the realtime hub
func NewGateway(hub *Hub, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{hub: hub, logger: logger.Named("realtime")}
}

// Stream subscribes the caller to a project room over Server-Sent Events.
// The first event is always the join acknowledgment.
func (g *Gateway) Stream(c *gin.Context) {
	projectID := c.Param("projectId")
	if _, err := uuid.Parse(projectID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"data":      nil,
			"message":   "invalid project id",
			"code":      http.StatusBadRequest,
			"errorCode": "INVALID_INPUT",
		})
		return
	}

	client, err := g.hub.Join(projectID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"data":      nil,
			"message":   err.Error(),
			"code":      http.StatusServiceUnavailable,
			"errorCode": "MAX_CONNECTIONS_REACHED",
		})
		return
	}
	defer g.hub.Leave(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	g.logger.Info("client subscribed",
		zap.String("client_id", client.ID),
		zap.String("project_id", projectID))

	g.writeEvent(c.Writer, Event{
		Name: "project-join-success",
		Data: fmt.Sprintf(`{"projectId":"%s","clientId":"%s","timestamp":%d}`,
			projectID, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			g.logger.Debug("client disconnected", zap.String("client_id", client.ID))
			return
		case <-client.Done:
			return
		case <-g.hub.Done():
			return
		case event, ok := <-client.Chan:
			if !ok {
				return
			}
			g.writeEvent(c.Writer, event)
			c.Writer.Flush()
		}
	}
}

// relayRequest is a client-originated update to re-broadcast to the room
type relayRequest struct {
	Event string         `json:"event" binding:"required"`
	Data  map[string]any `json:"data"`
}

// Relay re-broadcasts a client-originated update to the project's room
// without touching the broker. Persistence happens on a separate write
// path before the client calls this.
func (g *Gateway) Relay(c *gin.Context) {
	projectID := c.Param("projectId")
	if _, err := uuid.Parse(projectID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"data":      nil,
			"message":   "invalid project id",
			"code":      http.StatusBadRequest,
			"errorCode": "INVALID_INPUT",
		})
		return
	}

	var req relayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"data":      nil,
			"message":   "event name is required",
			"code":      http.StatusBadRequest,
			"errorCode": "INVALID_INPUT",
		})
		return
	}

	payload := req.Data
	if payload == nil {
		payload = map[string]any{}
	}
	payload["projectId"] = projectID
	data, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"data":      nil,
			"message":   "unserializable payload",
			"code":      http.StatusBadRequest,
			"errorCode": "INVALID_INPUT",
		})
		return
	}

	g.hub.Broadcast(projectID, Event{Name: req.Event, Data: string(data)})

	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"delivered": g.hub.RoomSize(projectID)},
		"message": "Success",
	})
}

func (g *Gateway) writeEvent(w io.Writer, event Event) {
	if event.Name != "" {
		fmt.Fprintf(w, "event: %s\n", event.Name)
	}
	if event.ID != "" {
		fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", event.Data)
}
