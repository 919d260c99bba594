package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that bounds the request context by d, so the
// storage calls a handler makes fail with context.DeadlineExceeded once the
// budget is spent. A non-positive d disables the limit.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
