package hmiddleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDKey int

var ridKey requestIDKey

var requestIDHeaders = []string{
	"Request-Id", "X-Request-Id",
}

// RequestID makes sure every request carries an X-Request-Id header, reusing
// an inbound Request-Id or X-Request-Id when present, and stores the id in the
// request context. The id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		for _, h := range requestIDHeaders {
			if id = r.Header.Get(h); id != "" {
				break
			}
		}
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-Id", id)
		}

		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// WithRequestID adds id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ridKey, id)
}

// RequestIDFromContext returns the request id stored by RequestID.
func RequestIDFromContext(ctx context.Context) (id string, ok bool) {
	id, ok = ctx.Value(ridKey).(string)
	return
}
