package tlspolicy

import (
	"fmt"
	"strings"
)

// Mode is the operational mode of the policy.
type Mode int

const (
	// Strict rejects every request that did not arrive over https.
	Strict Mode = iota

	// AllowRedirectForGet redirects plaintext GET requests to https when the
	// endpoint that would handle them is annotated with RedirectToHTTPS. All
	// other unencrypted requests are rejected.
	AllowRedirectForGet
)

var modes = []Mode{Strict, AllowRedirectForGet}

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case AllowRedirectForGet:
		return "allow-redirect-for-get"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decode parses a mode name. It implements envdecode.Decoder.
func (m *Mode) Decode(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		*m = Strict
	case "allow-redirect-for-get", "allowredirectforget":
		*m = AllowRedirectForGet
	default:
		return &ArgumentError{Kind: InvalidArgument, Param: "mode", Value: s}
	}
	return nil
}

// GetMode is the per-endpoint annotation consulted for plaintext GET
// requests when the policy runs in AllowRedirectForGet mode.
type GetMode int

const (
	// ReturnForbidden answers plaintext GET requests with 403.
	ReturnForbidden GetMode = iota
	// RedirectToHTTPS answers plaintext GET requests with a 301 to https.
	RedirectToHTTPS
)

var getModes = []GetMode{ReturnForbidden, RedirectToHTTPS}

func (g GetMode) String() string {
	switch g {
	case ReturnForbidden:
		return "return-forbidden"
	case RedirectToHTTPS:
		return "redirect-to-https"
	default:
		return fmt.Sprintf("GetMode(%d)", int(g))
	}
}

// ValidateGetMode returns an InvalidArgument error if g is not a declared
// GetMode.
func ValidateGetMode(g GetMode) error {
	return checkDefined("mode", g, getModes)
}
