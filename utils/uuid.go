package utils

import (
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the correlation id of a request
const RequestIDHeader = "X-Request-ID"

// GenerateRequestID returns a new unique request identifier
func GenerateRequestID() string {
	return uuid.New().String()
}
