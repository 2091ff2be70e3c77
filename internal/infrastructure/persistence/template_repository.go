package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTemplateRepository implements notification.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Template, error) {
	var m models.NotificationTemplate
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists templates, optionally scoped to a project, newest first
func (r *GormTemplateRepository) FindAll(ctx context.Context, projectID *uuid.UUID, filter shared.Filter) ([]notification.Template, error) {
	query := r.db.WithContext(ctx).
		Order("created_at desc").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var ms []models.NotificationTemplate
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Template, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// FindLatest returns the most recently created template matching the project
// and kind. A nil projectID matches global templates only.
func (r *GormTemplateRepository) FindLatest(ctx context.Context, projectID *uuid.UUID, kind notification.ResourceKind) (*notification.Template, error) {
	query := r.db.WithContext(ctx).Where("type = ?", string(kind))
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	} else {
		query = query.Where("project_id IS NULL")
	}

	var m models.NotificationTemplate
	if err := query.Order("created_at desc").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTemplateNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, t *notification.Template) error {
	m := models.TemplateFromDomain(t)
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NotificationTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
