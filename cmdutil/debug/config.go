package debug

import "github.com/heroku/hsts/hmiddleware/basicauth"

// Config describes the configurable parameters for debugging.
type Config struct {
	// Port is where the gops agent listens on localhost. 0 disables it.
	Port int `env:"DEBUG_PORT,default=9999"`

	// MetricsPort serves expvar metrics at /debug/vars. 0 disables it.
	MetricsPort int `env:"DEBUG_METRICS_PORT"`

	// Credentials guard the metrics endpoint with basic auth when set.
	Credentials basicauth.Credentials `env:"DEBUG_CREDENTIALS"`
}
