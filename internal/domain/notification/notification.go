package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/shared"
)

// Notification status values. Records are soft-deleted, never removed.
const (
	StatusActive  = 1
	StatusDeleted = -1
)

// Notification is a persisted record of a domain event rendered for display
type Notification struct {
	shared.BaseEntity
	ProjectID  uuid.UUID      `json:"projectId"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Kind       ResourceKind   `json:"type"`
	Data       map[string]any `json:"data,omitempty"`
	Read       bool           `json:"read"`
	Status     int            `json:"status"`
	TemplateID *uuid.UUID     `json:"templateId,omitempty"`
}

// NewNotification creates an active notification for a project
func NewNotification(projectID uuid.UUID, title, message string, kind ResourceKind) *Notification {
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      title,
		Message:    message,
		Kind:       kind,
		Status:     StatusActive,
	}
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	n.Read = true
	n.Touch()
}

// SoftDelete marks the notification as deleted without removing the record
func (n *Notification) SoftDelete() {
	n.Status = StatusDeleted
	n.Touch()
}

// IsDeleted reports whether the notification has been soft-deleted
func (n *Notification) IsDeleted() bool {
	return n.Status < 0
}

// DomainEvent is the transient message handed from the synthesizer to the
// broker and on to the realtime gateway. It is never persisted itself.
type DomainEvent struct {
	Kind      ResourceKind   `json:"kind"`
	ProjectID string         `json:"projectId"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewDomainEvent creates a timestamped event
func NewDomainEvent(kind ResourceKind, projectID string, payload map[string]any) DomainEvent {
	return DomainEvent{
		Kind:      kind,
		ProjectID: projectID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
