package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Recovery turns a panic further down the chain into an error, so one broken
// request cannot take the process down.
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (resp *http.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic in api request",
						zap.String("method", req.Method),
						zap.String("path", req.URL.Path),
						zap.Any("panic", r))
					TrackError("panic")
					if resp != nil && resp.Body != nil {
						resp.Body.Close()
					}
					resp, err = nil, fmt.Errorf("%s %s: recovered from panic: %v", req.Method, req.URL.Path, r)
				}
			}()
			return next.RoundTrip(req)
		})
	}
}
