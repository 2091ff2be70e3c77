package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ProjectHandler handles project API endpoints
type ProjectHandler struct {
	BaseHandler
	projects  project.Repository
	templates notification.TemplateRepository
	logger    *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler. A nil templates repository
// disables seeding of starter notification templates.
func NewProjectHandler(projects project.Repository, templates notification.TemplateRepository, logger *zap.Logger) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{projects: projects, templates: templates, logger: logger.Named("project")}
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest is the request body for updating a project
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p := project.NewProject(req.Name, req.Description)
	if err := h.projects.Save(c.Request.Context(), p); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	// Seed starter templates. The project exists either way.
	if h.templates != nil {
		for _, t := range notification.DefaultTemplates(p.ID) {
			if err := h.templates.Save(c.Request.Context(), t); err != nil {
				h.logger.Warn("failed to seed default template",
					zap.String("project_id", p.ID.String()),
					zap.String("type", string(t.Kind)),
					zap.Error(err))
			}
		}
	}

	h.Created(c, p)
}

// GetByID retrieves a project by its ID
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	p, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// List retrieves a paginated list of active projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	projects, err := h.projects.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	total, err := h.projects.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Paginated(c, projects, total, req.Page, req.PageSize)
}

// Update modifies a project's name or description
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	p.Touch()

	if err := h.projects.Save(c.Request.Context(), p); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// Archive soft-deletes a project
func (h *ProjectHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	p, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	p.Archive()
	if err := h.projects.Save(c.Request.Context(), p); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}
