package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTodoRepository implements project.TodoRepository using GORM
type GormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GormTodoRepository
func NewGormTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

// FindByID finds a todo by its ID
func (r *GormTodoRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Todo, error) {
	var m models.Todo
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByProject finds todos belonging to a project
func (r *GormTodoRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]project.Todo, error) {
	var ms []models.Todo
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(orderClause(filter)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]project.Todo, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// CountByProject counts todos belonging to a project
func (r *GormTodoRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a todo
func (r *GormTodoRepository) Save(ctx context.Context, t *project.Todo) error {
	m := models.TodoFromDomain(t)
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes a todo
func (r *GormTodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Todo{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
