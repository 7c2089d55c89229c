package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL checks that raw is an absolute http(s) URL and strips any
// trailing slash so endpoint paths can be appended directly.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// JoinURL appends an endpoint path to a normalized base URL.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
