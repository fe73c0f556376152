// Package basicauth guards handlers with HTTP basic auth.
package basicauth

import (
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
)

// Credentials is a list of username/password pairs. It decodes from a
// semicolon separated list of user:password entries, so it can be used in
// envdecode config structs.
type Credentials []Credential

// Decode implements envdecode.Decoder. Blank entries are skipped.
func (c *Credentials) Decode(repl string) error {
	var result Credentials
	for i, part := range strings.Split(repl, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cred, err := parseCredential(part)
		if err != nil {
			return errors.Wrapf(err, "credential %d", i)
		}
		result = append(result, cred)
	}

	*c = result
	return nil
}

// Credential is a username/password pair accepted by a Checker.
type Credential struct {
	Username string
	Password string
}

var errMalformedCredentials = errors.New("malformed credentials")

func parseCredential(credential string) (Credential, error) {
	user, pass, ok := strings.Cut(credential, ":")
	if !ok || (user == "" && pass == "") {
		return Credential{}, errMalformedCredentials
	}
	return Credential{Username: user, Password: pass}, nil
}

// Checker validates basic auth credentials.
type Checker struct {
	credentials Credentials
}

// NewChecker returns a Checker that accepts any of credentials.
func NewChecker(credentials Credentials) *Checker {
	return &Checker{credentials: credentials}
}

// Valid is true if username and password match one of the configured
// credentials. Every credential is compared.
func (c *Checker) Valid(username, password string) bool {
	valid := 0
	for _, cred := range c.credentials {
		u := subtle.ConstantTimeCompare([]byte(cred.Username), []byte(username))
		p := subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password))
		valid |= u & p
	}
	return valid == 1
}
