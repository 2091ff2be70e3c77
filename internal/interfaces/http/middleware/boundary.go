package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/backend/internal/infrastructure/cache"
	"github.com/taskhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const jsonContentType = "application/json; charset=utf-8"

// Boundary is the response boundary: it wraps every response in the uniform
// envelope, serves cached GET responses, and evicts stale cache entries on
// mutations. Requires ProjectScope to run first.
type Boundary struct {
	cache   *cache.ResponseCache
	logger  *zap.Logger
	timeout time.Duration
}

// NewBoundary creates the response boundary. A nil cache disables caching
// but keeps envelope normalization and audit logging.
func NewBoundary(responseCache *cache.ResponseCache, logger *zap.Logger) *Boundary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Boundary{
		cache:   responseCache,
		logger:  logger.Named("boundary"),
		timeout: 5 * time.Second,
	}
}

// bufferedWriter holds the handler's output until the boundary has
// normalized it
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// Handler returns the boundary middleware
func (b *Boundary) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		projectID := ProjectID(c)
		cacheable := b.cache != nil && method == http.MethodGet
		key := ""

		if cacheable {
			key = b.cache.Key(c.ClientIP(), method, c.Request.URL.RequestURI(), projectID)
			if body, ok := b.cache.Get(c.Request.Context(), key); ok {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, jsonContentType, body)
				c.Abort()
				return
			}
		}

		writer := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		status := writer.Status()
		body, enveloped := b.normalize(c, status, writer.buf.Bytes())

		if cacheable {
			c.Header("X-Cache", "MISS")
			if enveloped && status >= 200 && status < 300 {
				b.cache.Set(c.Request.Context(), key, body)
			}
		}

		b.audit(c, status, projectID)

		if len(body) > 0 {
			if enveloped {
				c.Header("Content-Type", jsonContentType)
			}
			c.Writer.WriteHeader(status)
			_, _ = c.Writer.Write(body)
		} else {
			c.Writer.WriteHeader(status)
		}

		if isMutation(method) {
			b.invalidate(projectID, c.Param("id"))
		}
	}
}

// normalize rewrites the handler output into one of the envelope shapes.
// Non-JSON output passes through untouched and is reported as not
// enveloped.
func (b *Boundary) normalize(c *gin.Context, status int, raw []byte) ([]byte, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw, false
	}

	// Payloads already carrying the envelope shape pass through unchanged
	if obj, ok := payload.(map[string]any); ok {
		_, hasData := obj["data"]
		_, hasMessage := obj["message"]
		if hasData && hasMessage {
			return raw, true
		}
	}

	var envelope any
	switch {
	case status >= http.StatusBadRequest:
		envelope = b.errorEnvelope(status, payload)
	default:
		if list, ok := payload.([]any); ok {
			var req dto.ListRequest
			_ = c.ShouldBindQuery(&req)
			req.Normalize()
			envelope = dto.NewListEnvelope(list, int64(len(list)), req.Page, req.PageSize)
		} else {
			envelope = dto.NewEnvelope(payload)
		}
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return raw, false
	}
	return body, true
}

func (b *Boundary) errorEnvelope(status int, payload any) dto.ErrorEnvelope {
	message := http.StatusText(status)
	var details any
	if obj, ok := payload.(map[string]any); ok {
		if v, ok := obj["message"].(string); ok && v != "" {
			message = v
		} else if v, ok := obj["error"].(string); ok && v != "" {
			message = v
		}
		if v, ok := obj["details"]; ok {
			details = v
		}
	}
	return dto.NewErrorEnvelope(errorCodeForStatus(status), message, details)
}

func errorCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return dto.ErrCodeInvalidInput
	case http.StatusNotFound:
		return dto.ErrCodeNotFound
	case http.StatusConflict:
		return dto.ErrCodeAlreadyExists
	case http.StatusUnprocessableEntity:
		return dto.ErrCodeInvalidState
	case http.StatusTooManyRequests:
		return dto.ErrCodeRateLimited
	case http.StatusRequestEntityTooLarge:
		return dto.ErrCodeRequestTooLarge
	default:
		return dto.ErrCodeInternal
	}
}

// invalidate evicts cached GET responses for the mutated project and
// resource. Best-effort and asynchronous: the response is already on its
// way when this runs.
func (b *Boundary) invalidate(projectID, resourceID string) {
	if b.cache == nil {
		return
	}

	var patterns []string
	if projectID != "" {
		patterns = append(patterns, b.cache.ProjectPattern(projectID))
	}
	if resourceID != "" {
		patterns = append(patterns, b.cache.ResourcePattern(resourceID))
	}
	if len(patterns) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		removed := b.cache.Invalidate(ctx, patterns...)
		b.logger.Debug("cache invalidated",
			zap.String("project_id", projectID),
			zap.String("resource_id", resourceID),
			zap.Int("removed", removed))
	}()
}

// audit records every formatted response together with a snapshot of the
// inbound request
func (b *Boundary) audit(c *gin.Context, status int, projectID string) {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", c.GetString("request_id")),
	}
	if projectID != "" {
		fields = append(fields, zap.String("project_id", projectID))
	}
	if body := RequestBody(c); body != nil {
		fields = append(fields, zap.Any("request_body", body))
	}
	b.logger.Info("request completed", fields...)
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
