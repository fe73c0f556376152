package hmiddleware

import (
	"net/http"

	"github.com/heroku/hsts/tlspolicy"
)

const forwardedProtoHeader = "X-Forwarded-Proto"

// RequestFacts describes r for tlspolicy.Decide.
//
// The scheme is taken from an absolute-form request URL if present, then from
// X-Forwarded-Proto when trustProxy is set, and otherwise from whether the
// connection is TLS. A request is encrypted only when its connection is TLS,
// or when trustProxy is set and X-Forwarded-Proto is https. The request
// target is client input and never makes a request encrypted.
func RequestFacts(r *http.Request, trustProxy bool) tlspolicy.Facts {
	var forwarded string
	if trustProxy {
		forwarded = r.Header.Get(forwardedProtoHeader)
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = forwarded
	}
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}

	return tlspolicy.Facts{
		Encrypted: r.TLS != nil || forwarded == "https",
		Method:    r.Method,
		Scheme:    scheme,
		Host:      host,
		Path:      r.URL.EscapedPath(),
		RawQuery:  r.URL.RawQuery,
	}
}
