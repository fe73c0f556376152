package debug

import (
	"expvar"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/cmdutil"
	"github.com/heroku/hsts/hmiddleware/basicauth"
)

// MetricsHandler serves the process expvars at /debug/vars. With credentials
// set, requests must authenticate; failures are counted on p.
func MetricsHandler(p provider.Provider, credentials basicauth.Credentials) http.Handler {
	r := chi.NewRouter()
	if len(credentials) > 0 {
		failures := p.NewCounter("debug.auth-failures")
		r.Use(basicauth.NewChecker(credentials).Authenticate("debug", failures))
	}
	r.Method(http.MethodGet, "/debug/vars", expvar.Handler())
	return r
}

// NewMetricsServer serves MetricsHandler on port.
func NewMetricsServer(l logrus.FieldLogger, p provider.Provider, cfg Config) cmdutil.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           MetricsHandler(p, cfg.Credentials),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return cmdutil.NewHTTPServer(l.WithField("service", "metrics"), srv, nil)
}
