package tlspolicy

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Facts are the parts of a request the policy looks at.
type Facts struct {
	// Encrypted is true when the request arrived over TLS.
	Encrypted bool

	Method string
	Scheme string

	// Host is the request host and may include a port.
	Host string

	// Path is the escaped request path and RawQuery the query string without
	// the leading '?'. Both are copied verbatim into redirect locations.
	Path     string
	RawQuery string
}

// A Resolver finds the GetMode annotation of the endpoint that would serve a
// request. ok is false when the request matches no endpoint or the endpoint
// carries no annotation.
type Resolver interface {
	Resolve(ctx context.Context, f Facts) (mode GetMode, ok bool, err error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, f Facts) (GetMode, bool, error)

// Resolve calls fn.
func (fn ResolverFunc) Resolve(ctx context.Context, f Facts) (GetMode, bool, error) {
	return fn(ctx, f)
}

// Action is what should happen to a request.
type Action int

const (
	// Allow serves the request and stamps the HSTS header on the response.
	Allow Action = iota
	// Redirect answers 301 with a Location header.
	Redirect
	// Reject answers 403.
	Reject
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "Action(" + strconv.Itoa(int(a)) + ")"
	}
}

// Outcome is the result of Decide. Location is only set for Redirect.
type Outcome struct {
	Action   Action
	Location string
}

// Decide applies the policy to a request.
//
// The resolver is consulted at most once and only for plaintext GET requests
// over the http scheme when the mode is AllowRedirectForGet; it may be nil.
// A resolver error is returned wrapped and no decision is made.
func Decide(ctx context.Context, o Options, f Facts, resolver Resolver) (Outcome, error) {
	if f.Encrypted {
		return Outcome{Action: Allow}, nil
	}

	if o.mode == AllowRedirectForGet && f.Method == "GET" && f.Scheme == "http" && resolver != nil {
		mode, ok, err := resolver.Resolve(ctx, f)
		if err != nil {
			return Outcome{}, errors.Wrap(err, "resolving endpoint annotation")
		}
		if ok && mode == RedirectToHTTPS {
			return Outcome{Action: Redirect, Location: o.Location(f)}, nil
		}
	}

	return Outcome{Action: Reject}, nil
}

// Location returns the https equivalent of the request described by f. Any
// port on f.Host is dropped and the configured redirect port, if any, is used.
func (o Options) Location(f Facts) string {
	host := hostname(f.Host)

	var b strings.Builder
	b.WriteString("https://")
	if o.redirectPort == NoRedirectPort {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		b.WriteString(host)
	} else {
		b.WriteString(net.JoinHostPort(host, strconv.Itoa(o.redirectPort)))
	}
	b.WriteString(f.Path)
	if f.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(f.RawQuery)
	}
	return b.String()
}

// RejectMessage is the body written for rejected requests.
func RejectMessage(scheme string) string {
	return "Scheme " + scheme + " is not allowed. Only https scheme is allowed."
}

func hostname(host string) string {
	return (&url.URL{Host: host}).Hostname()
}
