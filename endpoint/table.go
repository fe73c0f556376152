// Package endpoint resolves the tlspolicy.GetMode annotation of the chi
// endpoint that would serve a request.
//
// Go has no attributes, so annotations are declared next to the routes in a
// Table. A handler is annotated by method and pattern; a handler group is a
// sub-router mounted with chi's Route or Mount and is annotated by its mount
// pattern. A handler's own annotation wins over its group's.
package endpoint

import (
	"strings"

	"github.com/heroku/hsts/tlspolicy"
)

// AnyMethod annotates a pattern for every HTTP method.
const AnyMethod = "*"

type routeKey struct {
	method  string
	pattern string
}

// Table holds endpoint annotations. It is filled at startup and must not be
// modified once requests are being served.
type Table struct {
	routes map[routeKey]tlspolicy.GetMode
	groups map[string]tlspolicy.GetMode
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		routes: make(map[routeKey]tlspolicy.GetMode),
		groups: make(map[string]tlspolicy.GetMode),
	}
}

// Annotate attaches mode to the handler registered for method and pattern.
// An empty method or AnyMethod applies to all methods.
func (t *Table) Annotate(method, pattern string, mode tlspolicy.GetMode) error {
	if err := tlspolicy.ValidateGetMode(mode); err != nil {
		return err
	}
	t.routes[routeKey{method: normalizeMethod(method), pattern: normalizePattern(pattern)}] = mode
	return nil
}

// AnnotateGroup attaches mode to every handler of the sub-router mounted at
// pattern.
func (t *Table) AnnotateGroup(pattern string, mode tlspolicy.GetMode) error {
	if err := tlspolicy.ValidateGetMode(mode); err != nil {
		return err
	}
	t.groups[normalizePattern(pattern)] = mode
	return nil
}

// Lookup returns the annotation for a handler registered under the full route
// pattern. The handler's own annotation is checked first, then the innermost
// group containing it.
func (t *Table) Lookup(method, pattern string) (tlspolicy.GetMode, bool) {
	pattern = normalizePattern(pattern)

	if m, ok := t.routes[routeKey{method: normalizeMethod(method), pattern: pattern}]; ok {
		return m, true
	}
	if m, ok := t.routes[routeKey{method: AnyMethod, pattern: pattern}]; ok {
		return m, true
	}

	var (
		best    string
		mode    tlspolicy.GetMode
		matched bool
	)
	for g, m := range t.groups {
		if !inGroup(pattern, g) {
			continue
		}
		if !matched || len(g) > len(best) {
			best, mode, matched = g, m, true
		}
	}
	return mode, matched
}

func inGroup(pattern, group string) bool {
	if group == "/" {
		return true
	}
	return pattern == group || strings.HasPrefix(pattern, group+"/")
}

func normalizeMethod(method string) string {
	if method == "" {
		return AnyMethod
	}
	return strings.ToUpper(method)
}

// normalizePattern drops chi's mount wildcards and trailing slashes so that
// "/redirect", "/redirect/" and "/redirect/*" name the same group.
func normalizePattern(pattern string) string {
	for {
		trimmed := strings.TrimSuffix(strings.TrimSuffix(pattern, "*"), "/")
		if trimmed == pattern {
			break
		}
		pattern = trimmed
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return pattern
}
