package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/heroku/hsts/tlspolicy"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newRouter(t *testing.T) (chi.Router, *Table) {
	t.Helper()

	r := chi.NewRouter()
	table := NewTable()

	r.Get("/", ok)
	r.Get("/home", ok)
	r.Get("/plain", ok)
	r.Post("/submit", ok)

	r.Route("/redirect", func(r chi.Router) {
		r.Get("/", ok)
		r.Get("/forbidden", ok)
		r.Get("/items/{id}", ok)

		r.Route("/nested", func(r chi.Router) {
			r.Get("/", ok)
			r.Get("/deep", ok)
		})
	})

	r.Route("/strict", func(r chi.Router) {
		r.Get("/", ok)
		r.Get("/redirect", ok)
		r.Post("/redirect", ok)
	})

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(table.Annotate("GET", "/", tlspolicy.RedirectToHTTPS))
	must(table.Annotate(AnyMethod, "/home", tlspolicy.RedirectToHTTPS))

	must(table.AnnotateGroup("/redirect", tlspolicy.RedirectToHTTPS))
	must(table.Annotate("GET", "/redirect/forbidden", tlspolicy.ReturnForbidden))
	must(table.AnnotateGroup("/redirect/nested/*", tlspolicy.ReturnForbidden))

	must(table.AnnotateGroup("/strict", tlspolicy.ReturnForbidden))
	must(table.Annotate("get", "/strict/redirect", tlspolicy.RedirectToHTTPS))

	return r, table
}

func TestResolve(t *testing.T) {
	router, table := newRouter(t)
	resolver := NewResolver(router, table)

	tests := []struct {
		name   string
		method string
		path   string

		wantOK   bool
		wantMode tlspolicy.GetMode
	}{
		{name: "root method annotation", method: "GET", path: "/", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "any method annotation", method: "GET", path: "/home", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "unannotated route", method: "GET", path: "/plain", wantOK: false},
		{name: "unknown route", method: "GET", path: "/missing", wantOK: false},
		{name: "method not routed", method: "GET", path: "/submit", wantOK: false},
		{name: "group index", method: "GET", path: "/redirect", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "group index with slash", method: "GET", path: "/redirect/", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "method beats group", method: "GET", path: "/redirect/forbidden", wantOK: true, wantMode: tlspolicy.ReturnForbidden},
		{name: "group covers url params", method: "GET", path: "/redirect/items/42", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "innermost group wins", method: "GET", path: "/redirect/nested/deep", wantOK: true, wantMode: tlspolicy.ReturnForbidden},
		{name: "strict group", method: "GET", path: "/strict", wantOK: true, wantMode: tlspolicy.ReturnForbidden},
		{name: "method beats strict group", method: "GET", path: "/strict/redirect", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "annotation is per method", method: "POST", path: "/strict/redirect", wantOK: true, wantMode: tlspolicy.ReturnForbidden},
		{name: "escaped path", method: "GET", path: "/redirect/items/a%20b", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "escaped slash is not a separator", method: "GET", path: "/strict%2Fredirect", wantOK: false},
		{name: "escaped slash in url param", method: "GET", path: "/redirect/items/a%2Fb", wantOK: true, wantMode: tlspolicy.RedirectToHTTPS},
		{name: "needlessly escaped letter", method: "GET", path: "/h%6Fme", wantOK: false},
		{name: "unknown method", method: "BREW", path: "/", wantOK: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mode, ok, err := resolver.Resolve(context.Background(), tlspolicy.Facts{
				Method: test.method,
				Scheme: "http",
				Host:   "test.net",
				Path:   test.path,
			})
			if err != nil {
				t.Fatal(err)
			}

			if ok != test.wantOK {
				t.Fatalf("want ok %v, got %v", test.wantOK, ok)
			}
			if ok && mode != test.wantMode {
				t.Fatalf("want mode %v, got %v", test.wantMode, mode)
			}
		})
	}
}

func TestResolveWithoutRoutes(t *testing.T) {
	tests := []struct {
		name     string
		resolver *Resolver
	}{
		{name: "nil resolver", resolver: nil},
		{name: "nil routes", resolver: NewResolver(nil, NewTable())},
		{name: "nil table", resolver: NewResolver(chi.NewRouter(), nil)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := test.resolver.Resolve(context.Background(), tlspolicy.Facts{Method: "GET", Path: "/"})
			if errors.Cause(err) != ErrNoRoutes {
				t.Fatalf("want %v, got %v", ErrNoRoutes, err)
			}
		})
	}
}

func TestDecideWithResolver(t *testing.T) {
	router, table := newRouter(t)

	o, err := tlspolicy.New(tlspolicy.AllowRedirectForGet, tlspolicy.DefaultMaxAge, true, 600)
	if err != nil {
		t.Fatal(err)
	}

	out, err := tlspolicy.Decide(context.Background(), o, tlspolicy.Facts{
		Method:   "GET",
		Scheme:   "http",
		Host:     "test.net:1000",
		Path:     "/redirect/items/7",
		RawQuery: "set=5",
	}, NewResolver(router, table))
	if err != nil {
		t.Fatal(err)
	}

	if out.Action != tlspolicy.Redirect {
		t.Fatalf("want redirect, got %v", out.Action)
	}
	if want := "https://test.net:600/redirect/items/7?set=5"; out.Location != want {
		t.Fatalf("want location %q, got %q", want, out.Location)
	}
}

func TestResolveAgreesWithRouter(t *testing.T) {
	router, table := newRouter(t)
	resolver := NewResolver(router, table)

	paths := []string{
		"/home",
		"/h%6Fme",
		"/strict/redirect",
		"/strict%2Fredirect",
		"/redirect/items/a%2Fb",
		"/redirect/items/a%20b",
		"/redirect%2Fforbidden",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://test.net"+path, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			routed := rec.Code != http.StatusNotFound

			_, ok, err := resolver.Resolve(context.Background(), tlspolicy.Facts{
				Method: "GET",
				Scheme: "http",
				Host:   "test.net",
				Path:   req.URL.EscapedPath(),
			})
			if err != nil {
				t.Fatal(err)
			}

			if !routed && ok {
				t.Fatalf("want no annotation for a path the router does not serve, got one")
			}
			if routed && !ok {
				t.Fatalf("want an annotation for a path the router serves, got none")
			}
		})
	}
}
