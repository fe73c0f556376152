package hmiddleware

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/heroku/hsts/tlspolicy"
)

// newHSTSWriter wraps w so that the Strict-Transport-Security header is added
// once, right before the response headers are committed. The returned stamp
// func adds it for handlers that never write; call it after the handler
// returns.
func newHSTSWriter(w http.ResponseWriter, value string) (http.ResponseWriter, func()) {
	stamped := false
	stamp := func() {
		if stamped {
			return
		}
		stamped = true
		w.Header().Add(tlspolicy.HeaderName, value)
	}

	hw := httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				stamp()
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				stamp()
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				stamp()
				return next(src)
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				stamp()
				next()
			}
		},
	})

	return hw, stamp
}
