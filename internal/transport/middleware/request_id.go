package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/pkg/ctxutil"
)

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLength bounds client supplied IDs before they reach the logs.
const maxRequestIDLength = 128

// RequestID returns middleware that assigns every request an ID, reusing a
// client supplied one when it is short enough.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
