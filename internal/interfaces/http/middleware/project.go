package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderProjectID carries the project scope of a request
const HeaderProjectID = "X-Project-Id"

// HeaderUserID identifies the acting user
const HeaderUserID = "X-User-Id"

const (
	ctxProjectID   = "project_id"
	ctxRequestBody = "request_body"
)

// ProjectScope resolves the project a request belongs to and captures the
// JSON request body for downstream consumers. Resolution precedence: the
// X-Project-Id header, then the projectId route param, then the projectId
// query param, then the projectId body field. The body is restored so
// handlers can bind it again.
func ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := captureBody(c)
		if body != nil {
			c.Set(ctxRequestBody, body)
		}

		projectID := c.GetHeader(HeaderProjectID)
		if projectID == "" {
			projectID = c.Param("projectId")
		}
		if projectID == "" {
			projectID = c.Query("projectId")
		}
		if projectID == "" && body != nil {
			if v, ok := body["projectId"].(string); ok {
				projectID = v
			}
		}
		if projectID != "" {
			c.Set(ctxProjectID, projectID)
		}

		c.Next()
	}
}

// ProjectID returns the resolved project scope, or "" when none applies
func ProjectID(c *gin.Context) string {
	return c.GetString(ctxProjectID)
}

// RequestBody returns the captured JSON body of the request, or nil
func RequestBody(c *gin.Context) map[string]any {
	if v, ok := c.Get(ctxRequestBody); ok {
		if body, ok := v.(map[string]any); ok {
			return body
		}
	}
	return nil
}

// UserID returns the acting user from the request, or "" when anonymous
func UserID(c *gin.Context) string {
	if id := c.GetHeader(HeaderUserID); id != "" {
		return id
	}
	if body := RequestBody(c); body != nil {
		if v, ok := body["userId"].(string); ok {
			return v
		}
	}
	return ""
}

func captureBody(c *gin.Context) map[string]any {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if ct := c.ContentType(); !strings.Contains(ct, "json") {
		return nil
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}
