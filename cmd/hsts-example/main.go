// Command hsts-example serves a small site behind hmiddleware.EnsureTLS to
// show each endpoint annotation at work.
//
//	GET  /                    redirects to https
//	GET  /home                redirects to https
//	GET  /redirect            redirects to https (group)
//	GET  /redirect/forbidden  forbidden over http
//	GET  /strict              forbidden over http (group)
//	GET  /strict/redirect     redirects to https
//
// Set HTTPS_MODE=allow-redirect-for-get to enable redirects, and SERVER_CERT,
// SERVER_KEY and HTTPS_PORT to terminate TLS in process.
package main

import (
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-kit/kit/metrics/provider"
	"github.com/joeshaw/envdecode"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/cmdutil"
	"github.com/heroku/hsts/cmdutil/debug"
	"github.com/heroku/hsts/cmdutil/healthcheck"
	"github.com/heroku/hsts/cmdutil/https"
	"github.com/heroku/hsts/cmdutil/signals"
	"github.com/heroku/hsts/cmdutil/svclog"
)

func main() {
	var cfg config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(1)
	}

	logger, err := svclog.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(1)
	}

	policy, err := cfg.policy()
	if err != nil {
		logger.WithError(err).Fatal("invalid https policy")
	}

	metrics := provider.NewExpvarProvider()
	defer metrics.Stop()

	handler, err := newRouter(logger, metrics, routerOptions{
		policy:              policy,
		trustForwardedProto: cfg.TrustForwardedProto,
		rejectLogBurst:      cfg.RejectLogBurst,
		rejectLogWindow:     cfg.RejectLogWindow,
		development:         cfg.Development,
	})
	if err != nil {
		logger.WithError(err).Fatal("building routes")
	}

	logger.WithFields(logrus.Fields{
		"at":            "policy",
		"mode":          policy.Mode().String(),
		"hsts":          policy.HeaderValue(),
		"redirect_port": policy.RedirectPort(),
	}).Info()

	servers := []cmdutil.Server{
		signals.NewServer(logger, syscall.SIGINT, syscall.SIGTERM),
		cmdutil.NewHTTPServer(logger.WithField("service", "http"), &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}, nil),
	}

	if cfg.HTTPS.Port != 0 {
		srv, err := https.NewServer(logger, handler, cfg.HTTPS)
		if err != nil {
			logger.WithError(err).Fatal("configuring https")
		}
		servers = append(servers, srv)
	}
	if cfg.HealthcheckPort != 0 {
		addr := fmt.Sprintf(":%d", cfg.HealthcheckPort)
		servers = append(servers, healthcheck.NewTCPServer(logger.WithField("service", "healthcheck"), metrics, addr))
	}
	if cfg.Debug.Port != 0 {
		servers = append(servers, debug.NewAgentServer(logger, cfg.Debug))
	}
	if cfg.Debug.MetricsPort != 0 {
		servers = append(servers, debug.NewMetricsServer(logger, metrics, cfg.Debug))
	}

	var g run.Group
	for _, s := range servers {
		g.Add(s.Run, s.Stop)
	}

	if err := g.Run(); err != nil {
		logger.WithError(err).Fatal("exiting")
	}
	logger.WithField("at", "exit").Info()
}
