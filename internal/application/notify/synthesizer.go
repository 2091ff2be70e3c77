package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Publisher hands serialized events to the broker. Implemented by
// broker.Publisher.
type Publisher interface {
	Publish(ctx context.Context, topic string, message any) error
}

// NotificationMessage is the wire schema published on the notification topic
type NotificationMessage struct {
	Type         string                     `json:"type"`
	ProjectID    string                     `json:"projectId"`
	Notification *notification.Notification `json:"notification"`
}

// Mutation describes one mutating request observed by the boundary. The
// route path is the matched template, not the raw URL.
type Mutation struct {
	Method    string
	RoutePath string
	ProjectID string
	UserID    string
	Payload   map[string]any
}

// Synthesizer turns mutating requests into persisted, published
// notification events without ever blocking the request path
type Synthesizer struct {
	renderer      *Renderer
	notifications notification.Repository
	publisher     Publisher
	topic         string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewSynthesizer creates an event synthesizer publishing to the given topic
func NewSynthesizer(renderer *Renderer, notifications notification.Repository, publisher Publisher, topic string, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		renderer:      renderer,
		notifications: notifications,
		publisher:     publisher,
		topic:         topic,
		timeout:       10 * time.Second,
		logger:        logger.Named("notify"),
	}
}

// Dispatch runs the pipeline in the background. The triggering request is
// never delayed, altered or failed: every error (and panic) is captured and
// logged here.
func (s *Synthesizer) Dispatch(m Mutation) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("notification pipeline panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.Process(ctx, m); err != nil {
			s.logger.Error("notification pipeline failed",
				zap.String("project_id", m.ProjectID),
				zap.String("route", m.RoutePath),
				zap.Error(err),
			)
		}
	}()
}

// Process executes the pipeline synchronously: classify, render, persist,
// publish. Exposed for testing; production callers use Dispatch.
func (s *Synthesizer) Process(ctx context.Context, m Mutation) error {
	projectID, err := uuid.Parse(m.ProjectID)
	if err != nil {
		return fmt.Errorf("unresolvable project id %q: %w", m.ProjectID, err)
	}

	kind := notification.KindForRoute(m.RoutePath)
	payload := s.eventPayload(m)

	rendered, err := s.renderer.Render(ctx, kind, payload, &projectID)
	if err != nil {
		if !errors.Is(err, shared.ErrTemplateNotFound) {
			return fmt.Errorf("template render failed: %w", err)
		}
		rendered = s.fallback(kind, m)
	}

	record := notification.NewNotification(projectID, rendered.Subject, rendered.Body, rendered.Kind)
	record.Data = m.Payload
	record.TemplateID = rendered.TemplateID
	if err := s.notifications.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	msg := NotificationMessage{
		Type:         "notification",
		ProjectID:    m.ProjectID,
		Notification: record,
	}
	if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	s.logger.Debug("notification published",
		zap.String("project_id", m.ProjectID),
		zap.String("kind", string(kind)),
		zap.String("notification_id", record.ID.String()),
	)
	return nil
}

// eventPayload builds the substitution payload: the request body enriched
// with the actor, method and project
func (s *Synthesizer) eventPayload(m Mutation) map[string]any {
	payload := make(map[string]any, len(m.Payload)+3)
	for k, v := range m.Payload {
		payload[k] = v
	}
	payload["userId"] = s.actor(m)
	payload["method"] = m.Method
	payload["projectId"] = m.ProjectID
	return payload
}

// fallback synthesizes a deterministic subject and body when no template
// matches
func (s *Synthesizer) fallback(kind notification.ResourceKind, m Mutation) notification.Rendered {
	body, err := json.Marshal(m.Payload)
	if err != nil {
		body = []byte("{}")
	}
	return notification.Rendered{
		Subject: fmt.Sprintf("Project %s %s %s change", m.ProjectID, kind, m.Method),
		Body: fmt.Sprintf("A %s operation was performed on %s by user %s.\nRequest body: %s",
			m.Method, kind, s.actor(m), body),
		Kind: kind,
	}
}

func (s *Synthesizer) actor(m Mutation) string {
	if m.UserID != "" {
		return m.UserID
	}
	if v, ok := m.Payload["userId"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return "unknown"
}
