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

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var m models.Notification
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByProject lists non-deleted notifications for a project, newest first
func (r *GormNotificationRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var ms []models.Notification
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND status >= 0", projectID).
		Order("created_at desc").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Notification, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// CountByProject counts non-deleted notifications for a project
func (r *GormNotificationRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("project_id = ? AND status >= 0", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification record
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	m, err := models.NotificationFromDomain(n)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(m).Error
}
