package main

import (
	"time"

	"github.com/heroku/hsts/cmdutil/debug"
	"github.com/heroku/hsts/cmdutil/https"
	"github.com/heroku/hsts/cmdutil/svclog"
	"github.com/heroku/hsts/tlspolicy"
)

type config struct {
	// Port serves plain http. Requests on it go through the policy like any
	// other.
	Port int `env:"PORT,default=5000"`

	// HealthcheckPort answers TCP health checks when set.
	HealthcheckPort int `env:"HEALTHCHECK_PORT"`

	TrustForwardedProto bool `env:"TRUST_X_FORWARDED_PROTO"`

	RejectLogBurst  int           `env:"REJECT_LOG_BURST,default=10"`
	RejectLogWindow time.Duration `env:"REJECT_LOG_WINDOW,default=1s"`

	// Development relaxes the browser hardening headers.
	Development bool `env:"DEVELOPMENT"`

	Policy tlspolicy.Config
	HTTPS  https.Config
	Debug  debug.Config
	Logger svclog.Config
}

// policy validates the policy config. Redirects go to the https port when no
// redirect port is configured.
func (cfg config) policy() (tlspolicy.Options, error) {
	pc := cfg.Policy
	if pc.RedirectPort == tlspolicy.NoRedirectPort && cfg.HTTPS.Port != 0 {
		pc.RedirectPort = cfg.HTTPS.Port
	}
	return pc.Options()
}
