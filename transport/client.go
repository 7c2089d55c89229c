package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"go.uber.org/zap"
)

const (
	DefaultTimeout         = 15 * time.Second
	DefaultMaxResponseSize = 10 << 20

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Tokens supplies the bearer token; nil sends every request anonymously.
	Tokens middleware.TokenSource
	Logger *zap.Logger
	// MaxResponseSize caps response bodies; DefaultMaxResponseSize when zero.
	MaxResponseSize int64
	// Base is the innermost RoundTripper; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// Client is the single HTTP client shared by every service. It never
// retries: creates are not idempotent.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL, err := utils.NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxSize := opts.MaxResponseSize
	if maxSize <= 0 {
		maxSize = DefaultMaxResponseSize
	}

	rt := middleware.Chain(opts.Base,
		middleware.Recovery(logger),
		middleware.RequestTracing(),
		middleware.Metrics(),
		middleware.Logging(logger),
		middleware.BearerAuth(opts.Tokens),
		middleware.ResponseSizeLimiter(maxSize),
	)

	return &Client{
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		http:      &http.Client{Transport: rt, Timeout: timeout},
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request. body is JSON encoded when non-nil; a 2xx response
// body is decoded into out when out is non-nil. Failures are *Error values.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, utils.JoinURL(c.baseURL, path), reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if errors.Is(err, middleware.ErrResponseTooLarge) {
		middleware.TrackError("server")
		return &Error{Kind: ErrServer, Method: method, Path: path, Err: err}
	}
	if err != nil {
		middleware.TrackError("network")
		return &Error{Kind: ErrNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if kind := KindForStatus(resp.StatusCode); kind != nil {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: utils.ErrorMessage(raw),
			Method:  method,
			Path:    path,
		}
		middleware.TrackError(KindName(apiErr))
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &Error{Kind: ErrServer, Status: resp.StatusCode, Method: method, Path: path, Err: errors.New("empty response body")}
		}
		return &Error{Kind: ErrServer, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
