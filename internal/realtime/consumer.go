package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// NotificationHandler relays notification-topic messages to the matching
// project room as "notification-new" events. Malformed messages are
// dropped without stopping the consume loop.
func (g *Gateway) NotificationHandler() func(payload []byte) {
	return func(payload []byte) {
		var msg struct {
			Type         string          `json:"type"`
			ProjectID    string          `json:"projectId"`
			Notification json.RawMessage `json:"notification"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil || msg.ProjectID == "" {
			g.logger.Debug("dropping malformed notification message", zap.Error(err))
			return
		}
		if msg.Type != "notification" || len(msg.Notification) == 0 {
			g.logger.Debug("dropping notification message with missing fields",
				zap.String("type", msg.Type))
			return
		}

		g.hub.Broadcast(msg.ProjectID, Event{
			Name: "notification-new",
			Data: string(msg.Notification),
		})
	}
}

// TodoHandler relays resource-update-topic messages to the matching
// project room as "todo-updated" events
func (g *Gateway) TodoHandler() func(payload []byte) {
	return func(payload []byte) {
		var msg struct {
			Type      string          `json:"type"`
			ProjectID string          `json:"projectId"`
			Todo      json.RawMessage `json:"todo"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil || msg.ProjectID == "" {
			g.logger.Debug("dropping malformed todo message", zap.Error(err))
			return
		}
		if len(msg.Todo) == 0 {
			g.logger.Debug("dropping todo message with missing fields",
				zap.String("type", msg.Type))
			return
		}

		data, err := json.Marshal(map[string]json.RawMessage{
			"projectId": json.RawMessage(`"` + msg.ProjectID + `"`),
			"todo":      msg.Todo,
		})
		if err != nil {
			g.logger.Debug("dropping unserializable todo message", zap.Error(err))
			return
		}

		g.hub.Broadcast(msg.ProjectID, Event{
			Name: "todo-updated",
			Data: string(data),
		})
	}
}
