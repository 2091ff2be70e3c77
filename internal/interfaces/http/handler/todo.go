package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/application/notify"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/domain/shared"
	"github.com/taskhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// TodoMessage is the wire schema published on the resource-update topic
type TodoMessage struct {
	Type      string        `json:"type"`
	ProjectID string        `json:"projectId"`
	Todo      *project.Todo `json:"todo"`
}

// TodoHandler handles todo API endpoints. Every mutation is published on
// the resource-update topic so collaborating clients converge.
type TodoHandler struct {
	BaseHandler
	todos     project.TodoRepository
	publisher notify.Publisher
	topic     string
	logger    *zap.Logger
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todos project.TodoRepository, publisher notify.Publisher, topic string, logger *zap.Logger) *TodoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoHandler{
		todos:     todos,
		publisher: publisher,
		topic:     topic,
		logger:    logger.Named("todo"),
	}
}

// CreateTodoRequest is the request body for creating a todo
type CreateTodoRequest struct {
	ProjectID string     `json:"projectId" binding:"required,uuid"`
	Title     string     `json:"title" binding:"required,min=1,max=500"`
	Notes     string     `json:"notes" binding:"max=5000"`
	DueDate   *time.Time `json:"date"`
	Position  int        `json:"position"`
}

// UpdateTodoRequest is the request body for updating a todo
type UpdateTodoRequest struct {
	Title    *string    `json:"title" binding:"omitempty,min=1,max=500"`
	Notes    *string    `json:"notes" binding:"omitempty,max=5000"`
	Done     *bool      `json:"done"`
	DueDate  *time.Time `json:"date"`
	Position *int       `json:"position"`
}

// Create creates a new todo
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	t := project.NewTodo(projectID, req.Title)
	t.Notes = req.Notes
	t.DueDate = req.DueDate
	t.Position = req.Position

	if err := h.todos.Save(c.Request.Context(), t); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.publish(c, t)
	h.Created(c, t)
}

// GetByID retrieves a todo by its ID
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid todo ID format")
		return
	}

	t, err := h.todos.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}

// List retrieves a paginated list of todos in a project
func (h *TodoHandler) List(c *gin.Context) {
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

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	todos, err := h.todos.FindByProject(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	total, err := h.todos.CountByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Paginated(c, todos, total, req.Page, req.PageSize)
}

// Update modifies a todo
func (h *TodoHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid todo ID format")
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	t, err := h.todos.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	if req.Done != nil {
		t.Done = *req.Done
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Position != nil {
		t.Position = *req.Position
	}
	t.Touch()

	if err := h.todos.Save(c.Request.Context(), t); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.publish(c, t)
	h.Success(c, t)
}

// Delete removes a todo
func (h *TodoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid todo ID format")
		return
	}

	t, err := h.todos.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := h.todos.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.publish(c, t)
	h.NoContent(c)
}

// publish emits the todo on the resource-update topic. Best-effort: broker
// failures are logged, never surfaced to the caller.
func (h *TodoHandler) publish(c *gin.Context, t *project.Todo) {
	if h.publisher == nil {
		return
	}
	msg := TodoMessage{
		Type:      "todo",
		ProjectID: t.ProjectID.String(),
		Todo:      t,
	}
	if err := h.publisher.Publish(c.Request.Context(), h.topic, msg); err != nil {
		h.logger.Warn("failed to publish todo update",
			zap.String("todo_id", t.ID.String()),
			zap.String("project_id", msg.ProjectID),
			zap.Error(err))
	}
}
