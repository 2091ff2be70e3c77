package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/backend/internal/application/notify"
)

// Notify triggers the notification pipeline after every successful POST,
// PUT or PATCH that carries a resolvable project scope. The pipeline runs
// in the background; the response is never delayed or altered by it.
func Notify(synthesizer *notify.Synthesizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		projectID := ProjectID(c)
		if projectID == "" {
			return
		}

		synthesizer.Dispatch(notify.Mutation{
			Method:    c.Request.Method,
			RoutePath: c.FullPath(),
			ProjectID: projectID,
			UserID:    UserID(c),
			Payload:   RequestBody(c),
		})
	}
}
