// Package https runs the TLS terminating side of a service.
package https

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	proxyproto "github.com/armon/go-proxyproto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/cmdutil"
)

// NewServer returns a cmdutil.Server terminating TLS on cfg.Port and handing
// requests to handler.
func NewServer(l logrus.FieldLogger, handler http.Handler, cfg Config) (cmdutil.Server, error) {
	if cfg.ServerCert == "" || cfg.ServerKey == "" {
		return nil, errors.New("SERVER_CERT and SERVER_KEY are required to serve https")
	}

	tlsConfig, err := NewTLSConfig([]byte(cfg.ServerCert), []byte(cfg.ServerKey), cfg.Profile)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		TLSConfig:    tlsConfig,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	l = l.WithFields(logrus.Fields{"service": "https", "tls_profile": cfg.Profile.String()})
	return cmdutil.NewHTTPServer(l, srv, Listener(tlsConfig, cfg.ProxyProtocol)), nil
}

// Listener returns a cmdutil.Listener that terminates TLS with tlsConfig,
// reading a PROXY protocol header first when proxyProtocol is set.
func Listener(tlsConfig *tls.Config, proxyProtocol bool) cmdutil.Listener {
	return func(addr string) (net.Listener, error) {
		ln, err := cmdutil.TCPListener(addr)
		if err != nil {
			return nil, err
		}
		if proxyProtocol {
			ln = &proxyproto.Listener{Listener: ln}
		}
		return tls.NewListener(ln, tlsConfig), nil
	}
}
