package utils

import (
	"github.com/google/uuid"
)

// GenerateRequestID returns a random id for the X-Request-ID header, or an
// empty string if the random source fails.
func GenerateRequestID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return ""
	}
	return id.String()
}
