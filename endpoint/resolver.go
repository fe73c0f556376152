package endpoint

import (
	"context"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/heroku/hsts/tlspolicy"
)

// ErrNoRoutes is returned by Resolve when the Resolver has nothing to route
// against.
var ErrNoRoutes = errors.New("endpoint: no routes configured")

// Resolver implements tlspolicy.Resolver over a chi routing tree.
type Resolver struct {
	routes chi.Routes
	table  *Table
}

var _ tlspolicy.Resolver = (*Resolver)(nil)

// NewResolver returns a Resolver that matches requests against routes and
// looks their annotations up in table. routes should be the same router that
// serves the requests.
func NewResolver(routes chi.Routes, table *Table) *Resolver {
	return &Resolver{routes: routes, table: table}
}

// Resolve finds the route pattern that would serve f and returns its
// annotation. ok is false if no route matches or no annotation applies.
func (r *Resolver) Resolve(ctx context.Context, f tlspolicy.Facts) (tlspolicy.GetMode, bool, error) {
	if r == nil || r.routes == nil || r.table == nil {
		return 0, false, ErrNoRoutes
	}

	// chi routes on the decoded path unless the request carries a RawPath,
	// which net/url only keeps when the escaping is not the default one.
	path := f.Path
	if p, err := url.PathUnescape(path); err == nil && (&url.URL{Path: p}).EscapedPath() == f.Path {
		path = p
	}
	if path == "" {
		path = "/"
	}

	// Find mutates the route context, so use a fresh one rather than the
	// one the router will use to serve the request.
	rctx := chi.NewRouteContext()
	pattern := r.routes.Find(rctx, f.Method, path)
	if pattern == "" {
		return 0, false, nil
	}

	m, ok := r.table.Lookup(f.Method, pattern)
	return m, ok, nil
}
