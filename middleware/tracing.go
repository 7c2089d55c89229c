package middleware

import (
	"net/http"

	"github.com/Hung484/todo-app-frontend-1234/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestTracing tags every request with an X-Request-ID so client logs can
// be matched with the API's.
func RequestTracing() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			requestID := utils.GenerateRequestID()
			if requestID == "" {
				return next.RoundTrip(req)
			}
			traced := req.Clone(req.Context())
			traced.Header.Set(RequestIDHeader, requestID)
			return next.RoundTrip(traced)
		})
	}
}
