/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

package hmiddleware

import (
	"io"
	"net/http"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/heroku/hsts/tlspolicy"
)

// CounterProvider creates the counters EnsureTLS reports to. Any go-kit
// metrics provider satisfies it.
type CounterProvider interface {
	NewCounter(name string) metrics.Counter
}

type tlsOptions struct {
	resolver     tlspolicy.Resolver
	logger       logrus.FieldLogger
	provider     CounterProvider
	trustProxy   bool
	rejectBurst  int
	rejectWindow time.Duration
}

// TLSOption configures EnsureTLS.
type TLSOption func(*tlsOptions)

// WithResolver sets the resolver used to find endpoint annotations for
// plaintext GET requests. Without one every plaintext request is rejected.
func WithResolver(r tlspolicy.Resolver) TLSOption {
	return func(o *tlsOptions) {
		o.resolver = r
	}
}

// WithLogger sets the logger for redirects, rejections and resolver failures.
func WithLogger(l logrus.FieldLogger) TLSOption {
	return func(o *tlsOptions) {
		o.logger = l
	}
}

// WithMetrics reports decision counters to p.
func WithMetrics(p CounterProvider) TLSOption {
	return func(o *tlsOptions) {
		o.provider = p
	}
}

// TrustForwardedProto makes EnsureTLS believe the X-Forwarded-Proto header.
// Only use it behind a proxy that sets the header itself.
func TrustForwardedProto() TLSOption {
	return func(o *tlsOptions) {
		o.trustProxy = true
	}
}

// WithRejectLogSampling logs at most burst rejections per window. Rejections
// are logged unsampled by default.
func WithRejectLogSampling(burst int, window time.Duration) TLSOption {
	return func(o *tlsOptions) {
		o.rejectBurst = burst
		o.rejectWindow = window
	}
}

// EnsureTLS only lets requests that arrived over https through to the next
// handler, and stamps the Strict-Transport-Security header described by
// policy on their responses.
//
// Plaintext GET requests over http are redirected to https when policy is in
// AllowRedirectForGet mode and the resolver reports the endpoint as
// RedirectToHTTPS. Every other plaintext request gets a 403. If the resolver
// fails the request gets a 500.
func EnsureTLS(policy tlspolicy.Options, opts ...TLSOption) func(http.Handler) http.Handler {
	var o tlsOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		o.logger = l
	}

	var (
		allowed    = newCounter(o.provider, "tls.requests.allowed")
		redirected = newCounter(o.provider, "tls.requests.redirected")
		rejected   = newCounter(o.provider, "tls.requests.rejected")
		failures   = newCounter(o.provider, "tls.resolver.errors")
	)

	var limiter *rate.Limiter
	if o.rejectBurst > 0 && o.rejectWindow > 0 {
		limiter = rate.NewLimiter(rate.Every(o.rejectWindow), o.rejectBurst)
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			facts := RequestFacts(r, o.trustProxy)

			out, err := tlspolicy.Decide(r.Context(), policy, facts, o.resolver)
			if err != nil {
				failures.Add(1)
				requestLogger(o.logger, r, facts).WithError(err).Error("resolving endpoint annotation")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			switch out.Action {
			case tlspolicy.Allow:
				allowed.Add(1)

				hw, stamp := newHSTSWriter(w, policy.HeaderValue())
				next.ServeHTTP(hw, r)
				stamp()

			case tlspolicy.Redirect:
				redirected.Add(1)
				requestLogger(o.logger, r, facts).WithField("location", out.Location).Debug("redirecting to https")

				w.Header().Set("Location", out.Location)
				w.WriteHeader(http.StatusMovedPermanently)

			default:
				rejected.Add(1)
				if limiter == nil || limiter.Allow() {
					requestLogger(o.logger, r, facts).Info("rejecting insecure request")
				}

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, tlspolicy.RejectMessage(facts.Scheme))
			}
		}
		return http.HandlerFunc(fn)
	}
}

func requestLogger(l logrus.FieldLogger, r *http.Request, f tlspolicy.Facts) logrus.FieldLogger {
	fields := logrus.Fields{
		"at":     "ensure-tls",
		"method": f.Method,
		"scheme": f.Scheme,
		"host":   f.Host,
		"path":   r.URL.RequestURI(),
	}
	if id, ok := RequestIDFromContext(r.Context()); ok {
		fields["request_id"] = id
	}
	return l.WithFields(fields)
}

func newCounter(p CounterProvider, name string) metrics.Counter {
	if p == nil {
		return discard.NewCounter()
	}
	return p.NewCounter(name)
}
