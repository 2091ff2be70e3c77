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

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var m models.Project
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds all active projects matching the filter
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	var ms []models.Project
	query := r.db.WithContext(ctx).
		Where("status >= 0").
		Order(orderClause(filter)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]project.Project, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// Count counts active projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("status >= 0")
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	m := models.ProjectFromDomain(p)
	return r.db.WithContext(ctx).Save(m).Error
}

// orderClause builds a safe ORDER BY clause from the filter
func orderClause(filter shared.Filter) string {
	col := "created_at"
	switch filter.OrderBy {
	case "", "created_at":
	case "updated_at", "name", "title", "position":
		col = filter.OrderBy
	}
	dir := "desc"
	if filter.OrderDir == "asc" {
		dir = "asc"
	}
	return col + " " + dir
}
