// Package tlspolicy decides what to do with a request based on whether it
// arrived over an encrypted transport.
//
// Encrypted requests are allowed and get a Strict-Transport-Security header.
// Unencrypted requests are rejected with 403, except plaintext GET requests
// to endpoints annotated with RedirectToHTTPS, which are redirected with a 301
// when the policy mode is AllowRedirectForGet.
//
// Decide is pure; the hmiddleware package applies its outcome to an
// http.ResponseWriter.
package tlspolicy
