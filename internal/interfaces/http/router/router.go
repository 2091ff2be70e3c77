package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/backend/internal/application/notify"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/infrastructure/cache"
	"github.com/taskhub/backend/internal/infrastructure/logger"
	"github.com/taskhub/backend/internal/interfaces/http/handler"
	"github.com/taskhub/backend/internal/interfaces/http/middleware"
	"github.com/taskhub/backend/internal/realtime"
	"go.uber.org/zap"
)

// Dependencies carries everything the HTTP surface needs. Cache, Publisher
// and RateLimiter may be nil; the matching feature is then disabled.
type Dependencies struct {
	Logger        *zap.Logger
	Cache         *cache.ResponseCache
	Synthesizer   *notify.Synthesizer
	Publisher     notify.Publisher
	TodoTopic     string
	Hub           *realtime.Hub
	Projects      project.Repository
	Todos         project.TodoRepository
	Notifications notification.Repository
	Templates     notification.TemplateRepository
	RateLimiter   *middleware.RateLimiter
	MaxBodyBytes  int64
}

// New builds the gin engine with all middleware and routes wired
func New(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS())
	if deps.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(deps.MaxBodyBytes))
	}
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.Use(middleware.ProjectScope())

	// The realtime stream holds its connection open; it must stay outside
	// the buffering response boundary.
	if deps.Hub != nil {
		gateway := realtime.NewGateway(deps.Hub, log)
		rt := api.Group("/realtime")
		rt.GET("/projects/:projectId/stream", gateway.Stream)
		rt.POST("/projects/:projectId/events", gateway.Relay)
	}

	resources := api.Group("")
	boundary := middleware.NewBoundary(deps.Cache, log)
	resources.Use(boundary.Handler())
	if deps.Synthesizer != nil {
		resources.Use(middleware.Notify(deps.Synthesizer))
	}

	if deps.Projects != nil {
		h := handler.NewProjectHandler(deps.Projects, deps.Templates, log)
		projects := resources.Group("/projects")
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:id", h.GetByID)
		projects.PUT("/:id", h.Update)
		projects.POST("/:id/archive", h.Archive)
	}

	if deps.Todos != nil {
		h := handler.NewTodoHandler(deps.Todos, deps.Publisher, deps.TodoTopic, log)
		todos := resources.Group("/todos")
		todos.POST("", h.Create)
		todos.GET("", h.List)
		todos.GET("/:id", h.GetByID)
		todos.PUT("/:id", h.Update)
		todos.DELETE("/:id", h.Delete)
	}

	if deps.Notifications != nil {
		h := handler.NewNotificationHandler(deps.Notifications)
		notifications := resources.Group("/notifications")
		notifications.GET("", h.List)
		notifications.GET("/:id", h.GetByID)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)
	}

	if deps.Templates != nil {
		h := handler.NewTemplateHandler(deps.Templates)
		templates := resources.Group("/notification-templates")
		templates.POST("", h.Create)
		templates.GET("", h.List)
		templates.GET("/:id", h.GetByID)
		templates.DELETE("/:id", h.Delete)
	}

	return engine
}
