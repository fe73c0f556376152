package tlspolicy

import (
	"math"
	"strconv"
)

const (
	// DefaultMaxAge is one year in seconds.
	DefaultMaxAge = 31536000

	// NoRedirectPort leaves the port out of redirect locations.
	NoRedirectPort = -1

	// HeaderName is the response header stamped on encrypted responses.
	HeaderName = "Strict-Transport-Security"
)

// Options is a validated, immutable policy. The zero value is not valid; use
// New or Default. Options is safe to share between goroutines.
type Options struct {
	mode              Mode
	maxAge            int
	includeSubdomains bool
	redirectPort      int

	headerValue string
}

// New validates its arguments and returns the policy they describe.
//
// An InvalidArgument error is returned when mode is not declared. An
// OutOfRange error is returned when headerMaxAgeSeconds is outside
// [0, 2147483647] or redirectPort is outside [-1, 65535].
func New(mode Mode, headerMaxAgeSeconds int, headerIncludeSubdomains bool, redirectPort int) (Options, error) {
	if err := checkDefined("mode", mode, modes); err != nil {
		return Options{}, err
	}
	if err := checkRange("headerMaxAgeSeconds", int64(headerMaxAgeSeconds), 0, math.MaxInt32); err != nil {
		return Options{}, err
	}
	if err := checkRange("redirectPort", int64(redirectPort), NoRedirectPort, 65535); err != nil {
		return Options{}, err
	}

	v := "max-age=" + strconv.Itoa(headerMaxAgeSeconds)
	if headerIncludeSubdomains {
		v += "; includeSubDomains"
	}

	return Options{
		mode:              mode,
		maxAge:            headerMaxAgeSeconds,
		includeSubdomains: headerIncludeSubdomains,
		redirectPort:      redirectPort,
		headerValue:       v,
	}, nil
}

// Default returns a Strict policy with a one year max-age that includes
// subdomains.
func Default() Options {
	o, _ := New(Strict, DefaultMaxAge, true, NoRedirectPort)
	return o
}

func (o Options) Mode() Mode                    { return o.mode }
func (o Options) HeaderMaxAgeSeconds() int      { return o.maxAge }
func (o Options) HeaderIncludeSubdomains() bool { return o.includeSubdomains }
func (o Options) RedirectPort() int             { return o.redirectPort }

// HeaderValue returns the Strict-Transport-Security value, e.g.
// "max-age=31536000; includeSubDomains".
func (o Options) HeaderValue() string { return o.headerValue }
