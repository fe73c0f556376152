package hmiddleware

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/scrub"
)

// StructuredLogger implements chi's middleware.LogFormatter with logrus. Use
// it with middleware.RequestLogger; it logs a start line when a request comes
// in and a finish line when it completes.
type StructuredLogger struct {
	Logger logrus.FieldLogger

	// TrustForwardedProto reports the X-Forwarded-Proto header as the
	// request scheme.
	TrustForwardedProto bool
}

// StructuredLoggerEntry implements chi's middleware.LogEntry.
type StructuredLoggerEntry struct {
	Logger logrus.FieldLogger
}

// NewLogEntry logs the start of r and returns the entry for its finish.
func (l *StructuredLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	facts := RequestFacts(r, l.TrustForwardedProto)

	fields := logrus.Fields{
		"method":      r.Method,
		"host":        r.Host,
		"path":        scrub.RequestURI(r.URL.RequestURI()),
		"remote_addr": r.RemoteAddr,
		"user_agent":  r.UserAgent(),
		"protocol":    facts.Scheme,
		"tls":         facts.Encrypted,
	}
	if id, ok := RequestIDFromContext(r.Context()); ok {
		fields["request_id"] = id
	} else if id := r.Header.Get("X-Request-Id"); id != "" {
		fields["request_id"] = id
	}

	log := l.Logger.WithFields(fields)
	log.WithField("at", "start").Info()

	return &StructuredLoggerEntry{Logger: log}
}

// Write logs the finish of a request.
func (l *StructuredLoggerEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	fields := logrus.Fields{
		"at":      "finish",
		"status":  status,
		"bytes":   bytes,
		"service": fmt.Sprintf("%dms", elapsed/time.Millisecond),
	}
	if loc := header.Get("Location"); loc != "" {
		if u, err := url.Parse(loc); err == nil {
			loc = scrub.URL(u).String()
		}
		fields["location"] = loc
	}
	l.Logger.WithFields(fields).Info()
}

// Panic is called by chi's Recoverer middleware.
func (l *StructuredLoggerEntry) Panic(v interface{}, stack []byte) {
	l.Logger.WithField("stack", string(stack)).
		WithError(errors.Errorf("panic: %v", v)).
		Error("unhandled panic")
}
