package tlspolicy

// Config is the environment surface of a policy, decoded with
// github.com/joeshaw/envdecode.
type Config struct {
	Mode                  Mode `env:"HTTPS_MODE,default=strict"`
	HSTSMaxAge            int  `env:"HSTS_MAX_AGE,default=31536000"`
	HSTSIncludeSubdomains bool `env:"HSTS_INCLUDE_SUBDOMAINS,default=true"`
	RedirectPort          int  `env:"HTTPS_REDIRECT_PORT,default=-1"`
}

// Options validates cfg.
func (cfg Config) Options() (Options, error) {
	return New(cfg.Mode, cfg.HSTSMaxAge, cfg.HSTSIncludeSubdomains, cfg.RedirectPort)
}
