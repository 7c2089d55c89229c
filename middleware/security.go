package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrResponseTooLarge is returned while reading a response body that
// exceeds the configured limit.
var ErrResponseTooLarge = errors.New("response body too large")

// ResponseSizeLimiter caps how much of a response body can be read. A
// declared Content-Length over the limit fails before the body is read.
func ResponseSizeLimiter(maxSize int64) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || maxSize <= 0 {
				return resp, err
			}
			if resp.ContentLength > maxSize {
				resp.Body.Close()
				return nil, fmt.Errorf("%s %s: %w (%d bytes)", req.Method, req.URL.Path, ErrResponseTooLarge, resp.ContentLength)
			}
			resp.Body = &limitedBody{ReadCloser: resp.Body, remaining: maxSize}
			return resp, nil
		})
	}
}

type limitedBody struct {
	io.ReadCloser
	remaining int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		// One more byte tells a body that ends exactly at the limit from one
		// that goes past it.
		var extra [1]byte
		n, err := b.ReadCloser.Read(extra[:])
		if n > 0 {
			return 0, ErrResponseTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.ReadCloser.Read(p)
	b.remaining -= int64(n)
	return n, err
}
