package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/interfaces/http/dto"
)

// TemplateHandler handles notification template API endpoints
type TemplateHandler struct {
	BaseHandler
	templates notification.TemplateRepository
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templates notification.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// CreateTemplateRequest is the request body for creating a template. A
// missing projectId creates a global template used as fallback for every
// project.
type CreateTemplateRequest struct {
	ProjectID *string `json:"projectId" binding:"omitempty,uuid"`
	Kind      string  `json:"type" binding:"required,min=1,max=50"`
	Subject   string  `json:"subject" binding:"required,max=500"`
	Body      string  `json:"body" binding:"required,max=5000"`
}

// Create creates a new notification template
func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != nil {
		id, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			h.BadRequest(c, "Invalid project ID format")
			return
		}
		projectID = &id
	}

	tpl := notification.NewTemplate(projectID, notification.ResourceKind(req.Kind), req.Subject, req.Body)
	if err := h.templates.Save(c.Request.Context(), tpl); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tpl)
}

// GetByID retrieves a template by its ID
func (h *TemplateHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	tpl, err := h.templates.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tpl)
}

// List retrieves templates, optionally scoped to a project
func (h *TemplateHandler) List(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid project ID format")
			return
		}
		projectID = &id
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize}
	templates, err := h.templates.FindAll(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, templates)
}

// Delete removes a template. Notifications rendered from it keep their
// sourceTemplateId.
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
