package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/shared"
)

// Repository persists notification records
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Save(ctx context.Context, n *Notification) error
}

// TemplateRepository persists notification templates
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindAll(ctx context.Context, projectID *uuid.UUID, filter shared.Filter) ([]Template, error)
	// FindLatest returns the most recently created template matching the
	// project and kind. A nil projectID matches global templates only.
	// Returns shared.ErrTemplateNotFound when no template matches.
	FindLatest(ctx context.Context, projectID *uuid.UUID, kind ResourceKind) (*Template, error)
	Save(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}
