package notification

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/taskhub/backend/internal/domain/shared"
)

// Template is a per-project (or global) notification template. Subject and
// body may contain {{name}} placeholders substituted from an event payload.
// Templates are immutable once matched against an event.
type Template struct {
	shared.BaseEntity
	ProjectID *uuid.UUID   `json:"projectId,omitempty"`
	Kind      ResourceKind `json:"type"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
}

// NewTemplate creates a template scoped to a project. A nil projectID makes
// the template a global fallback for its kind.
func NewTemplate(projectID *uuid.UUID, kind ResourceKind, subject, body string) *Template {
	return &Template{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Kind:       kind,
		Subject:    subject,
		Body:       body,
	}
}

// DefaultTemplates returns the starter templates seeded into a freshly
// created project. Subjects and bodies use the same {{name}} placeholders
// as user-authored templates.
func DefaultTemplates(projectID uuid.UUID) []*Template {
	pid := projectID
	return []*Template{
		NewTemplate(&pid, KindTodo, "Todo: {{title}}", "{{userId}} changed todo {{title}}"),
		NewTemplate(&pid, KindGanttTask, "Task: {{title}}", "{{userId}} changed task {{title}}"),
	}
}

// Rendered holds the outcome of applying a template (or the synthesized
// fallback) to an event payload.
type Rendered struct {
	Subject    string       `json:"subject"`
	Body       string       `json:"body"`
	Kind       ResourceKind `json:"type"`
	TemplateID *uuid.UUID   `json:"templateId,omitempty"`
}

var placeholderRe = regexp.MustCompile(`{{\s*(\w+)\s*}}`)

// Substitute replaces every {{identifier}} token in text with the stringified
// payload value, or an empty string when the key is absent. Single pass, no
// escaping, no nesting.
func Substitute(text string, payload map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		key := placeholderRe.FindStringSubmatch(token)[1]
		v, ok := payload[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	})
}

// Render applies the template's subject and body to the payload
func (t *Template) Render(payload map[string]any) Rendered {
	id := t.ID
	return Rendered{
		Subject:    Substitute(t.Subject, payload),
		Body:       Substitute(t.Body, payload),
		Kind:       t.Kind,
		TemplateID: &id,
	}
}
