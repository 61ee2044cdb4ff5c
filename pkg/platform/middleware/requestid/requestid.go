// Package requestid assigns every request a correlation ID. An inbound
// X-Request-ID header is honoured when it is a well-formed UUID; otherwise a
// fresh one is generated. The ID is echoed back in the response header.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"abacus/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation ID.
const Header = "X-Request-ID"

// Middleware stores the request ID in the context and response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
