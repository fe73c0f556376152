package https

import (
	"crypto/tls"

	"github.com/pkg/errors"
)

var (
	// DefaultCiphers provides strong security for a wide range of clients.
	DefaultCiphers = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
		tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	}

	// ModernCiphers only allows forward secret AEAD suites.
	ModernCiphers = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	}
)

// NewTLSConfig returns a server TLS configuration for profile using the PEM
// encoded certificate chain and key.
//
// TLS 1.3 suites are not configurable and always enabled; Strict only
// accepts TLS 1.3.
func NewTLSConfig(certPEM, keyPEM []byte, profile Profile) (*tls.Config, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, errors.Wrap(err, "decoding TLS certificate")
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		// Only use curves that have assembly implementations.
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
		NextProtos:       []string{"h2", "http/1.1"},
	}

	switch profile {
	case Default:
		cfg.MinVersion = tls.VersionTLS12
		cfg.CipherSuites = DefaultCiphers
	case Modern:
		cfg.MinVersion = tls.VersionTLS12
		cfg.CipherSuites = ModernCiphers
	case Strict:
		cfg.MinVersion = tls.VersionTLS13
	default:
		return nil, errors.Errorf("unknown TLS profile %d", int(profile))
	}

	return cfg, nil
}
