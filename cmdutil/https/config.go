package https

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Config for the TLS terminating server.
type Config struct {
	// Port is the port TLS is terminated on. 0 disables the server.
	Port int `env:"HTTPS_PORT"`

	// ServerCert and ServerKey hold the PEM encoded certificate chain and
	// private key.
	ServerCert string `env:"SERVER_CERT"`
	ServerKey  string `env:"SERVER_KEY"`

	Profile Profile `env:"TLS_PROFILE,default=modern"`

	// ProxyProtocol expects a PROXY protocol header ahead of the TLS
	// handshake, as sent by a TCP load balancer.
	ProxyProtocol bool `env:"HTTPS_PROXY_PROTOCOL"`

	ReadTimeout  time.Duration `env:"HTTP_SERVER_READ_TIMEOUT,default=60s"`
	WriteTimeout time.Duration `env:"HTTP_SERVER_WRITE_TIMEOUT,default=60s"`
}

// Profile selects the cipher suites and minimum protocol version.
type Profile int

// Profiles, from most to least compatible.
const (
	Default Profile = iota
	Modern
	Strict
)

var profileNames = map[string]Profile{
	"default": Default,
	"modern":  Modern,
	"strict":  Strict,
}

// Decode implements envdecode.Decoder.
func (p *Profile) Decode(s string) error {
	v, ok := profileNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return errors.Errorf("unknown TLS profile %q", s)
	}
	*p = v
	return nil
}

func (p Profile) String() string {
	for name, v := range profileNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}
