package httpmetrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/heroku/hsts/testing/testmetrics"
)

func TestServer(t *testing.T) {
	p := testmetrics.NewProvider(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest("GET", "http://example.org/foo/bar", nil)
	New(p)(next).ServeHTTP(httptest.NewRecorder(), r)

	p.CheckCounter("http.server.all.requests", 1)
	p.CheckCounter("http.server.all.response-statuses.200", 1)
	p.CheckObservationCount("http.server.all.request-duration.ms", 1)
}

func TestServer_ResponseStatus(t *testing.T) {
	p := testmetrics.NewProvider(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://example.org/")
		w.WriteHeader(http.StatusMovedPermanently)
	})

	handler := New(p)(next)
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://example.org/", nil))
	}

	p.CheckCounter("http.server.all.requests", 3)
	p.CheckCounter("http.server.all.response-statuses.301", 3)
	p.CheckObservationCount("http.server.all.request-duration.ms", 3)
}

func TestServer_Chi(t *testing.T) {
	p := testmetrics.NewProvider(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest("GET", "http://example.org/redirect/items/7", nil)
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/redirect/*", "/items/{item_id}"}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	New(p)(next).ServeHTTP(httptest.NewRecorder(), r)

	p.CheckCounter("http.server.get.redirect.items.item-id.requests", 1)
	p.CheckCounter("http.server.get.redirect.items.item-id.response-statuses.200", 1)
	p.CheckObservationCount("http.server.get.redirect.items.item-id.request-duration.ms", 1)
}

func TestServer_NestedChiRouters(t *testing.T) {
	p := testmetrics.NewProvider(t)

	outer := chi.NewRouter()
	outer.Use(New(p))
	outer.Get("/", func(w http.ResponseWriter, r *http.Request) {})
	outer.Route("/strict", func(r chi.Router) {
		r.Post("/redirect", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ok")
		})
	})

	outer.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/strict/redirect", nil))
	outer.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	outer.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	p.CheckCounter("http.server.all.requests", 3)
	p.CheckCounter("http.server.all.response-statuses.404", 1)
	p.CheckCounter("http.server.post.strict.redirect.requests", 1)
	p.CheckCounter("http.server.post.strict.redirect.response-statuses.200", 1)
	p.CheckCounter("http.server.get.root.requests", 1)
}

func TestNameRoutePatterns(t *testing.T) {
	tests := []struct {
		patterns []string
		want     string
	}{
		{patterns: []string{"/"}, want: ""},
		{patterns: []string{"/*", "/apps/{foo_id}/bars/{bar_id}"}, want: "apps.foo-id.bars.bar-id"},
		{patterns: []string{"/strict/*", "/redirect"}, want: "strict.redirect"},
		{patterns: []string{"/items/{id:[0-9]+}"}, want: "items.id"},
	}

	for _, test := range tests {
		if got := nameRoutePatterns(test.patterns); got != test.want {
			t.Fatalf("nameRoutePatterns(%q) = %q, want %q", test.patterns, got, test.want)
		}
	}
}
