package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Logging writes one structured line per request. Tokens are never logged.
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("operation", OperationFrom(req.Context())),
				zap.String("request_id", req.Header.Get(RequestIDHeader)),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				logger.Warn("api request failed", append(fields, zap.Error(err))...)
				return resp, err
			}

			fields = append(fields, zap.Int("status", resp.StatusCode))
			if resp.StatusCode >= http.StatusInternalServerError {
				logger.Error("api request", fields...)
			} else {
				logger.Debug("api request", fields...)
			}
			return resp, nil
		})
	}
}
