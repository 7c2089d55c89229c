package middleware

import (
	"net/http"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// BearerAuth attaches "Authorization: Bearer <token>" when the source has a
// token and the request does not already carry credentials.
func BearerAuth(source TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if source == nil || req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			token := source.Token()
			if token == "" {
				return next.RoundTrip(req)
			}

			// RoundTrippers must not modify the caller's request.
			authed := req.Clone(req.Context())
			authed.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(authed)
		})
	}
}
