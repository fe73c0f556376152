package httpmetrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
)

const durationBuckets = 50

// New returns an HTTP middleware which captures request metrics and reports
// them to the given provider.
func New(p provider.Provider) func(http.Handler) http.Handler {
	reg := newRegistry(p)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.counter("http.server.all.requests").Add(1)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			next.ServeHTTP(ww, r)
			dur := time.Since(start)

			st := ww.Status()
			if st == 0 {
				// No Write or WriteHeader means OK.
				st = http.StatusOK
			}
			sts := strconv.Itoa(st)

			reg.histogram("http.server.all.request-duration.ms").Observe(ms(dur))
			reg.counter("http.server.all.response-statuses." + sts).Add(1)

			rctx := chi.RouteContext(r.Context())
			if rctx == nil || len(rctx.RoutePatterns) == 0 {
				return
			}

			name := nameRoutePatterns(rctx.RoutePatterns)
			if name == "" {
				name = "root"
			}

			// GET /redirect/items/{item_id} -> get.redirect.items.item-id
			met := "http.server." + strings.ToLower(r.Method) + "." + name
			reg.counter(met + ".requests").Add(1)
			reg.histogram(met + ".request-duration.ms").Observe(ms(dur))
			reg.counter(met + ".response-statuses." + sts).Add(1)
		})
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var dashRe = regexp.MustCompile(`[_]+`)

// nameRoutePatterns turns the patterns chi matched, one per router on the
// way to the handler, into a dotted metric name. For example
//
//	[]string{"/strict/*", "/redirect"}
//
// becomes "strict.redirect".
func nameRoutePatterns(patterns []string) string {
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(pattern, "/*")
		pattern = strings.Trim(pattern, "/")
		if pattern == "" || pattern == "*" {
			continue
		}

		parts := strings.Split(pattern, "/")
		for i, part := range parts {
			part = strings.TrimPrefix(part, "{")
			part = strings.TrimSuffix(part, "}")
			if j := strings.IndexByte(part, ':'); j >= 0 {
				part = part[:j]
			}
			parts[i] = dashRe.ReplaceAllString(part, "-")
		}

		result = append(result, strings.Join(parts, "."))
	}

	return strings.Join(result, ".")
}

// registry hands out one metric per name. Some providers, expvar among them,
// panic when a name is registered twice.
type registry struct {
	p provider.Provider

	mu         sync.Mutex
	counters   map[string]metrics.Counter
	histograms map[string]metrics.Histogram
}

func newRegistry(p provider.Provider) *registry {
	return &registry{
		p:          p,
		counters:   make(map[string]metrics.Counter),
		histograms: make(map[string]metrics.Histogram),
	}
}

func (r *registry) counter(name string) metrics.Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[name]
	if !ok {
		c = r.p.NewCounter(name)
		r.counters[name] = c
	}
	return c
}

func (r *registry) histogram(name string) metrics.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histograms[name]
	if !ok {
		h = r.p.NewHistogram(name, durationBuckets)
		r.histograms[name] = h
	}
	return h
}
