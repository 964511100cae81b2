package transport

import "net/http"

// DefaultAPIKeyHeader is the header a henkan server reads API keys from.
const DefaultAPIKeyHeader = "X-API-Key"

// Authenticator attaches an API key to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(req *http.Request, apiKey string)

// Apply calls f.
func (f AuthenticatorFunc) Apply(req *http.Request, apiKey string) {
	f(req, apiKey)
}

// None sends no credentials.
func None() Authenticator {
	return AuthenticatorFunc(func(*http.Request, string) {})
}

// Bearer sends the key as an Authorization bearer token, which a henkan
// server accepts alongside its API key header.
func Bearer() Authenticator {
	return AuthenticatorFunc(func(req *http.Request, apiKey string) {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	})
}

// Header sends the key in the named header, or DefaultAPIKeyHeader when
// name is empty.
func Header(name string) Authenticator {
	if name == "" {
		name = DefaultAPIKeyHeader
	}
	return AuthenticatorFunc(func(req *http.Request, apiKey string) {
		req.Header.Set(name, apiKey)
	})
}
