// Package testmetrics is a go-kit metrics provider for tests that records
// everything reported to it and can be checked afterwards.
package testmetrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/generic"
)

// Provider collects registered metrics for testing. Registering a name twice
// returns the same metric.
type Provider struct {
	t testing.TB

	sync.Mutex
	counters   map[string]*generic.Counter
	gauges     map[string]*generic.Gauge
	histograms map[string]*Histogram
	stopped    bool
}

// NewProvider constructs a test provider which can later be checked.
func NewProvider(t testing.TB) *Provider {
	return &Provider{
		t:          t,
		counters:   make(map[string]*generic.Counter),
		gauges:     make(map[string]*generic.Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// Stop marks the provider as stopped.
func (p *Provider) Stop() {
	p.Lock()
	defer p.Unlock()
	p.stopped = true
}

// Stopped reports whether Stop was called.
func (p *Provider) Stopped() bool {
	p.Lock()
	defer p.Unlock()
	return p.stopped
}

// NewCounter implements go-kit's provider.Provider interface.
func (p *Provider) NewCounter(name string) metrics.Counter {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.counters[name]; !ok {
		p.counters[name] = generic.NewCounter(name)
	}
	return p.counters[name]
}

// NewGauge implements go-kit's provider.Provider interface.
func (p *Provider) NewGauge(name string) metrics.Gauge {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.gauges[name]; !ok {
		p.gauges[name] = generic.NewGauge(name)
	}
	return p.gauges[name]
}

// NewHistogram implements go-kit's provider.Provider interface.
func (p *Provider) NewHistogram(name string, buckets int) metrics.Histogram {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.histograms[name]; !ok {
		p.histograms[name] = &Histogram{Histogram: generic.NewHistogram(name, buckets)}
	}
	return p.histograms[name]
}

// CheckCounter checks that there is a registered counter with the name and
// value provided.
func (p *Provider) CheckCounter(name string, v float64) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	c, ok := p.counters[name]
	if !ok {
		p.t.Fatalf("no counter named %s out of available counters:\n%s", name, p.counterNames())
	}
	if got := c.Value(); got != v {
		p.t.Fatalf("%v = %v, want %v", name, got, v)
	}
}

// CheckNoCounter checks that no counter with the name was registered.
func (p *Provider) CheckNoCounter(name string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	if _, ok := p.counters[name]; ok {
		p.t.Fatalf("a counter named %s was found", name)
	}
}

// CheckGauge checks that there is a registered gauge with the name and value
// provided.
func (p *Provider) CheckGauge(name string, v float64) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	g, ok := p.gauges[name]
	if !ok {
		p.t.Fatalf("no gauge named %s", name)
	}
	if got := g.Value(); got != v {
		p.t.Fatalf("%v = %v, want %v", name, got, v)
	}
}

// CheckObservationCount checks that the named histogram saw n observations.
func (p *Provider) CheckObservationCount(name string, n int) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	h, ok := p.histograms[name]
	if !ok {
		p.t.Fatalf("no histogram named %s", name)
	}
	if got := h.Count(); got != n {
		p.t.Fatalf("%v has %d observations, want %d", name, got, n)
	}
}

// PrintCounterValue prints the name and current value of a counter.
func (p *Provider) PrintCounterValue(name string) {
	p.Lock()
	defer p.Unlock()

	var v float64
	if c, ok := p.counters[name]; ok {
		v = c.Value()
	}
	fmt.Printf("%s: %v\n", name, v)
}

func (p *Provider) counterNames() string {
	names := make([]string, 0, len(p.counters))
	for k := range p.counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}

// Histogram is a generic histogram that also counts its observations.
type Histogram struct {
	*generic.Histogram

	mu sync.Mutex
	n  int
}

// Observe implements metrics.Histogram.
func (h *Histogram) Observe(value float64) {
	h.mu.Lock()
	h.n++
	h.mu.Unlock()

	h.Histogram.Observe(value)
}

// Count returns the number of observations.
func (h *Histogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}
