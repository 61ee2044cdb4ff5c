package testutil

import (
	"net/http"
	"time"

	"abacus/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context.
// This simulates what the requestid middleware does for every request.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClientMetadata adds client IP and User-Agent to the request context,
// as the metadata middleware would.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
