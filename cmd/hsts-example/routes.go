package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/endpoint"
	"github.com/heroku/hsts/hmiddleware"
	"github.com/heroku/hsts/hmiddleware/httpmetrics"
	"github.com/heroku/hsts/tlspolicy"
)

type page struct {
	Message string `json:"message"`
	Page    string `json:"page"`
}

func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page{Message: "Ok", Page: name})
	}
}

type annotation struct {
	method  string
	pattern string
	mode    tlspolicy.GetMode
}

var (
	// Method-level annotations win over the group they are in.
	routeAnnotations = []annotation{
		{"GET", "/", tlspolicy.RedirectToHTTPS},
		{"GET", "/home", tlspolicy.RedirectToHTTPS},
		{"GET", "/redirect/forbidden", tlspolicy.ReturnForbidden},
		{"GET", "/strict/redirect", tlspolicy.RedirectToHTTPS},
		{"POST", "/strict/redirect", tlspolicy.RedirectToHTTPS},
	}

	groupAnnotations = []annotation{
		{pattern: "/redirect", mode: tlspolicy.RedirectToHTTPS},
		{pattern: "/strict", mode: tlspolicy.ReturnForbidden},
	}
)

func annotations() (*endpoint.Table, error) {
	table := endpoint.NewTable()
	for _, a := range routeAnnotations {
		if err := table.Annotate(a.method, a.pattern, a.mode); err != nil {
			return nil, errors.Wrapf(err, "annotating %s %s", a.method, a.pattern)
		}
	}
	for _, a := range groupAnnotations {
		if err := table.AnnotateGroup(a.pattern, a.mode); err != nil {
			return nil, errors.Wrapf(err, "annotating group %s", a.pattern)
		}
	}
	return table, nil
}

type routerOptions struct {
	policy              tlspolicy.Options
	trustForwardedProto bool
	rejectLogBurst      int
	rejectLogWindow     time.Duration
	development         bool
}

func newRouter(l logrus.FieldLogger, p provider.Provider, o routerOptions) (http.Handler, error) {
	table, err := annotations()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	tlsOpts := []hmiddleware.TLSOption{
		hmiddleware.WithResolver(endpoint.NewResolver(r, table)),
		hmiddleware.WithLogger(l),
		hmiddleware.WithMetrics(p),
		hmiddleware.WithRejectLogSampling(o.rejectLogBurst, o.rejectLogWindow),
	}
	if o.trustForwardedProto {
		tlsOpts = append(tlsOpts, hmiddleware.TrustForwardedProto())
	}

	r.Use(hmiddleware.RequestID)
	r.Use(middleware.RequestLogger(&hmiddleware.StructuredLogger{
		Logger:              l,
		TrustForwardedProto: o.trustForwardedProto,
	}))
	r.Use(middleware.Recoverer)
	r.Use(httpmetrics.New(p))
	r.Use(hmiddleware.SecureHeaders(o.development))
	r.Use(hmiddleware.EnsureTLS(o.policy, tlsOpts...))

	r.Get("/", pageHandler("Home"))
	r.Get("/home", pageHandler("Home"))

	r.Route("/redirect", func(r chi.Router) {
		r.Get("/", pageHandler("Redirect"))
		r.Get("/forbidden", pageHandler("Redirect/Forbidden"))
	})

	r.Route("/strict", func(r chi.Router) {
		r.Get("/", pageHandler("Strict"))
		r.Get("/redirect", pageHandler("Strict/Redirect"))
		r.Post("/redirect", pageHandler("Strict/Redirect"))
	})

	return r, nil
}
