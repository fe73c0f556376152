package hmiddleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders adds browser hardening headers (frame denial, content type
// sniffing, XSS filter, referrer policy) to every response.
//
// Strict-Transport-Security and https redirects are left to EnsureTLS.
func SecureHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      isDevelopment,
	})
	return s.Handler
}
