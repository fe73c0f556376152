// Package scrub removes credentials from values before they are logged.
package scrub

import (
	"net/url"
	"strings"
)

const scrubbedValue = "[SCRUBBED]"

// RestrictedParams are the query parameter names whose values are scrubbed,
// compared case-insensitively.
var RestrictedParams = map[string]bool{
	"access_token":  true,
	"api_key":       true,
	"auth_token":    true,
	"client_secret": true,
	"code":          true,
	"password":      true,
	"refresh_token": true,
	"secret":        true,
	"sig":           true,
	"signature":     true,
	"token":         true,
}

// URL returns a copy of u with restricted query values and any userinfo
// password replaced. The input is not modified.
func URL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}

	sc := *u
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			sc.User = url.UserPassword(u.User.Username(), scrubbedValue)
		}
	}
	sc.RawQuery = Query(u.RawQuery)

	return &sc
}

// Query scrubs an encoded query string. Queries without restricted
// parameters come back unchanged, in their original order and encoding.
func Query(raw string) string {
	if raw == "" {
		return raw
	}

	var scrubbed bool
	parts := strings.Split(raw, "&")
	for i, part := range parts {
		key, _, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}
		if RestrictedParams[strings.ToLower(name)] {
			parts[i] = key + "=" + url.QueryEscape(scrubbedValue)
			scrubbed = true
		}
	}
	if !scrubbed {
		return raw
	}

	return strings.Join(parts, "&")
}

// RequestURI scrubs a request target as logged, such as "/login?token=x".
func RequestURI(uri string) string {
	path, query, ok := strings.Cut(uri, "?")
	if !ok {
		return uri
	}
	return path + "?" + Query(query)
}
