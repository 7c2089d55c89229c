package utils

import (
	"encoding/json"
	"strings"
)

// ErrorPayload is the error body the API sends. Most endpoints use
// "message"; some middleware answers with "error".
type ErrorPayload struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorMessage extracts the user-facing message from an error response body.
// It returns "" when the body carries none.
func ErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload ErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}
