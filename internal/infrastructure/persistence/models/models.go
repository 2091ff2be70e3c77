// Package models contains the GORM persistence models. They map to and
// from the domain types and never leak outside the persistence layer.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomain(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// Project is the persistence model for projects
type Project struct {
	BaseModel
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Status      int    `gorm:"not null;default:1;index"`
}

// TableName returns the table name
func (Project) TableName() string { return "projects" }

// ToDomain converts the model to the domain entity
func (m *Project) ToDomain() *project.Project {
	return &project.Project{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Status:      m.Status,
	}
}

// ProjectFromDomain converts a domain project to the persistence model
func ProjectFromDomain(p *project.Project) *Project {
	m := &Project{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
	}
	m.FromDomain(p.BaseEntity)
	return m
}

// Todo is the persistence model for todos
type Todo struct {
	BaseModel
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title     string     `gorm:"size:255;not null"`
	Notes     string     `gorm:"type:text"`
	Done      bool       `gorm:"not null;default:false"`
	DueDate   *time.Time
	Position  int        `gorm:"not null;default:0"`
}

// TableName returns the table name
func (Todo) TableName() string { return "todos" }

// ToDomain converts the model to the domain entity
func (m *Todo) ToDomain() *project.Todo {
	return &project.Todo{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		Title:      m.Title,
		Notes:      m.Notes,
		Done:       m.Done,
		DueDate:    m.DueDate,
		Position:   m.Position,
	}
}

// TodoFromDomain converts a domain todo to the persistence model
func TodoFromDomain(t *project.Todo) *Todo {
	m := &Todo{
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Notes:     t.Notes,
		Done:      t.Done,
		DueDate:   t.DueDate,
		Position:  t.Position,
	}
	m.FromDomain(t.BaseEntity)
	return m
}

// Notification is the persistence model for notification records
type Notification struct {
	BaseModel
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title      string     `gorm:"size:512;not null"`
	Message    string     `gorm:"type:text;not null"`
	Kind       string     `gorm:"column:type;size:32;not null"`
	DataJSON   string     `gorm:"column:data;type:jsonb"`
	Read       bool       `gorm:"not null;default:false"`
	Status     int        `gorm:"not null;default:1;index"`
	TemplateID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name
func (Notification) TableName() string { return "notifications" }

// ToDomain converts the model to the domain entity. Malformed stored data
// payloads degrade to a nil map rather than failing the read.
func (m *Notification) ToDomain() *notification.Notification {
	var data map[string]any
	if m.DataJSON != "" {
		_ = json.Unmarshal([]byte(m.DataJSON), &data)
	}
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		Title:      m.Title,
		Message:    m.Message,
		Kind:       notification.ResourceKind(m.Kind),
		Data:       data,
		Read:       m.Read,
		Status:     m.Status,
		TemplateID: m.TemplateID,
	}
}

// NotificationFromDomain converts a domain notification to the persistence model
func NotificationFromDomain(n *notification.Notification) (*Notification, error) {
	m := &Notification{
		ProjectID:  n.ProjectID,
		Title:      n.Title,
		Message:    n.Message,
		Kind:       string(n.Kind),
		Read:       n.Read,
		Status:     n.Status,
		TemplateID: n.TemplateID,
	}
	m.FromDomain(n.BaseEntity)

	if n.Data != nil {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return nil, err
		}
		m.DataJSON = string(raw)
	}
	return m, nil
}

// NotificationTemplate is the persistence model for notification templates
type NotificationTemplate struct {
	BaseModel
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`
	Kind      string     `gorm:"column:type;size:32;not null;index"`
	Subject   string     `gorm:"size:512;not null"`
	Body      string     `gorm:"type:text;not null"`
}

// TableName returns the table name
func (NotificationTemplate) TableName() string { return "notification_templates" }

// ToDomain converts the model to the domain entity
func (m *NotificationTemplate) ToDomain() *notification.Template {
	return &notification.Template{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		Kind:       notification.ResourceKind(m.Kind),
		Subject:    m.Subject,
		Body:       m.Body,
	}
}

// TemplateFromDomain converts a domain template to the persistence model
func TemplateFromDomain(t *notification.Template) *NotificationTemplate {
	m := &NotificationTemplate{
		ProjectID: t.ProjectID,
		Kind:      string(t.Kind),
		Subject:   t.Subject,
		Body:      t.Body,
	}
	m.FromDomain(t.BaseEntity)
	return m
}
