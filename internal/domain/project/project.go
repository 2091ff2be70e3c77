package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/shared"
)

// Project is the top-level workspace scoping todos, templates and
// notifications
type Project struct {
	shared.BaseEntity
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      int    `json:"status"`
}

// Project status values
const (
	StatusActive   = 1
	StatusArchived = -1
)

// NewProject creates an active project
func NewProject(name, description string) *Project {
	return &Project{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Status:      StatusActive,
	}
}

// Archive soft-deletes the project
func (p *Project) Archive() {
	p.Status = StatusArchived
	p.Touch()
}

// Todo is a task item within a project
type Todo struct {
	shared.BaseEntity
	ProjectID uuid.UUID  `json:"projectId"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Done      bool       `json:"done"`
	DueDate   *time.Time `json:"date,omitempty"`
	Position  int        `json:"position"`
}

// NewTodo creates an open todo in a project
func NewTodo(projectID uuid.UUID, title string) *Todo {
	return &Todo{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      title,
	}
}

// Repository persists projects
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, p *Project) error
}

// TodoRepository persists todos
type TodoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Todo, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Save(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
}
