package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles notification API endpoints
type NotificationHandler struct {
	BaseHandler
	notifications notification.Repository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications notification.Repository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List retrieves a paginated list of active notifications for a project,
// newest first
func (h *NotificationHandler) List(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("projectId"))
	if err != nil {
		h.BadRequest(c, "A valid projectId query parameter is required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize}
	notifications, err := h.notifications.FindByProject(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	total, err := h.notifications.CountByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Paginated(c, notifications, total, req.Page, req.PageSize)
}

// GetByID retrieves a notification by its ID
func (h *NotificationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	n, err := h.notifications.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, n)
}

// MarkRead marks a notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	n, err := h.notifications.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	n.MarkRead()
	if err := h.notifications.Save(c.Request.Context(), n); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, n)
}

// Delete soft-deletes a notification. The record stays in storage with a
// deleted status; it never appears in listings again.
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	n, err := h.notifications.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	n.SoftDelete()
	if err := h.notifications.Save(c.Request.Context(), n); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
