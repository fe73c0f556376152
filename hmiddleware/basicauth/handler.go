package basicauth

import (
	"net/http"
	"strconv"

	"github.com/go-kit/kit/metrics"
)

// Authenticate returns middleware that only lets requests with valid basic
// auth credentials through. Other requests get a 401 challenge for realm and
// are counted on failures.
func (c *Checker) Authenticate(realm string, failures metrics.Counter) func(http.Handler) http.Handler {
	challenge := "Basic realm=" + strconv.Quote(realm)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !c.Valid(username, password) {
				failures.Add(1)
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
