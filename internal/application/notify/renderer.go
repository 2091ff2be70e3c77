// Package notify implements the asynchronous notification pipeline: on
// every mutating request an event is synthesized, rendered from a template,
// persisted and published for realtime fan-out. The pipeline is best-effort
// and never delays or fails the triggering request.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/notification"
)

// Renderer resolves notification templates and applies event payloads
type Renderer struct {
	templates notification.TemplateRepository
}

// NewRenderer creates a template renderer
func NewRenderer(templates notification.TemplateRepository) *Renderer {
	return &Renderer{templates: templates}
}

// Render looks up the most recently created template for (projectID, kind)
// and substitutes placeholders from the payload. A nil projectID falls back
// to a global template match. Returns shared.ErrTemplateNotFound when no
// template matches; callers are expected to synthesize a fallback.
func (r *Renderer) Render(ctx context.Context, kind notification.ResourceKind, payload map[string]any, projectID *uuid.UUID) (notification.Rendered, error) {
	tpl, err := r.templates.FindLatest(ctx, projectID, kind)
	if err != nil {
		return notification.Rendered{}, err
	}
	return tpl.Render(payload), nil
}
