package notification

import "strings"

// ResourceKind classifies which domain entity a mutating request affected
type ResourceKind string

const (
	KindTodo       ResourceKind = "todo"
	KindGanttTask  ResourceKind = "gantt-task"
	KindHistory    ResourceKind = "history"
	KindPermission ResourceKind = "permission"
	KindFile       ResourceKind = "file"
	KindAsset      ResourceKind = "asset"
	KindUser       ResourceKind = "user"
	KindLocation   ResourceKind = "location"
	KindWebhook    ResourceKind = "webhook"
	KindLinkedItem ResourceKind = "linked-item"
	KindResource   ResourceKind = "resource"
)

// routeKind binds a route path fragment to a resource kind. The table is
// ordered: the first fragment found in the matched route template wins.
type routeKind struct {
	fragment string
	kind     ResourceKind
}

// routeKinds is consulted against the matched route template (not the raw
// URL), so a resource ID that happens to contain a fragment such as "user"
// can never misclassify the request.
var routeKinds = []routeKind{
	{"todo", KindTodo},
	{"gantt", KindGanttTask},
	{"history", KindHistory},
	{"permission", KindPermission},
	{"file", KindFile},
	{"asset", KindAsset},
	{"user", KindUser},
	{"location", KindLocation},
	{"webhook", KindWebhook},
	{"linked-item", KindLinkedItem},
}

// KindForRoute classifies a matched route template into a resource kind.
// Unrecognized routes fall back to the generic KindResource.
func KindForRoute(routePath string) ResourceKind {
	for _, rk := range routeKinds {
		if routeHasFragment(routePath, rk.fragment) {
			return rk.kind
		}
	}
	return KindResource
}

// routeHasFragment reports whether any literal path segment of the route
// template contains the fragment. Parameter segments (":id" and the like)
// are skipped.
func routeHasFragment(routePath, fragment string) bool {
	for _, seg := range strings.Split(routePath, "/") {
		if seg == "" || seg[0] == ':' || seg[0] == '*' {
			continue
		}
		if strings.Contains(seg, fragment) {
			return true
		}
	}
	return false
}
